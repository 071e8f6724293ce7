package nutrition

import (
	"testing"

	"recipe-health-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestClampServings(t *testing.T) {
	assert.Equal(t, 1, ClampServings(0))
	assert.Equal(t, 1, ClampServings(-3))
	assert.Equal(t, 1, ClampServings(1))
	assert.Equal(t, 6, ClampServings(6))
}

func TestLimitsFor(t *testing.T) {
	one := LimitsFor(1)
	assert.InDelta(t, 50.0, one.SugarG, 1e-9)
	assert.InDelta(t, 22.0, one.SatFatG, 1e-9)
	assert.InDelta(t, 2.2, one.TransFatG, 1e-9)
	assert.InDelta(t, 2.0, one.SodiumG, 1e-9)
	assert.InDelta(t, 25.0, one.FiberTarget, 1e-9)

	four := LimitsFor(4)
	assert.InDelta(t, 12.5, four.SugarG, 1e-9)
	assert.InDelta(t, 5.5, four.SatFatG, 1e-9)
	assert.InDelta(t, 0.5, four.SodiumG, 1e-9)

	// 份數修正後與 1 份相同
	assert.Equal(t, one, LimitsFor(0))
	assert.Equal(t, one, LimitsFor(-2))
}

func TestLimitsMonotonicInServings(t *testing.T) {
	prev := LimitsFor(1)
	for n := 2; n <= 12; n++ {
		cur := LimitsFor(n)
		assert.Less(t, cur.SugarG, prev.SugarG)
		assert.Less(t, cur.SodiumG, prev.SodiumG)
		prev = cur
	}
}

func TestPerServing(t *testing.T) {
	absolute := common.NutritionProfile{
		Calories: common.KnownNutrient(800),
		Sugar:    common.KnownNutrient(40),
		Sodium:   common.KnownNutrient(2.0),
		// TransFat 缺值，必須維持未知
	}

	perServing := PerServing(absolute, 4)

	assert.InDelta(t, 200.0, perServing.Calories.Value, 1e-9)
	assert.InDelta(t, 10.0, perServing.Sugar.Value, 1e-9)
	assert.InDelta(t, 0.5, perServing.Sodium.Value, 1e-9)
	assert.False(t, perServing.TransFat.Known, "未知營養素不可除成假的 0")
	assert.False(t, perServing.Fiber.Known)
}

func TestPerServingClampsServings(t *testing.T) {
	absolute := common.NutritionProfile{Sugar: common.KnownNutrient(30)}
	assert.InDelta(t, 30.0, PerServing(absolute, 0).Sugar.Value, 1e-9)
}

func TestApplyBaselines(t *testing.T) {
	p := common.NutritionProfile{
		Sugar: common.KnownNutrient(12),
	}

	filled := ApplyBaselines(p)

	// 已知數值不變
	assert.InDelta(t, 12.0, filled.Sugar.Value, 1e-9)
	// 未知數值填入基準值
	assert.True(t, filled.Sodium.Known)
	assert.InDelta(t, BaselineSodiumG, filled.Sodium.Value, 1e-9)
	assert.InDelta(t, BaselineSatFatG, filled.SaturatedFat.Value, 1e-9)
	assert.InDelta(t, BaselineTransFatG, filled.TransFat.Value, 1e-9)
	assert.InDelta(t, BaselineFiberG, filled.Fiber.Value, 1e-9)
	// 不修改輸入
	assert.False(t, p.Sodium.Known)
}
