package nutrition

import (
	"testing"

	"recipe-health-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func fixedImprovement(pct float64) ImprovementFunc {
	return func(string) float64 { return pct }
}

func TestProjectEmptyAcceptedReturnsInput(t *testing.T) {
	projector := NewProjector(fixedImprovement(40))
	perServing := common.NutritionProfile{
		Sugar: common.KnownNutrient(10),
		// Sodium 維持未知
	}

	projected := projector.Project(perServing, nil, 5)

	assert.Equal(t, perServing, projected)
	assert.False(t, projected.Sodium.Known, "沒有替代時不可套用基準值")
}

func TestProjectReducesNutrients(t *testing.T) {
	projector := NewProjector(fixedImprovement(40))
	perServing := common.NutritionProfile{
		Sugar:        common.KnownNutrient(10),
		Sodium:       common.KnownNutrient(1.0),
		SaturatedFat: common.KnownNutrient(5),
	}

	projected := projector.Project(perServing, map[string]string{"butter": "olive oil"}, 5)

	// share = 1/5，delta = 40%：10 - 10*0.2*0.4 = 9.2
	assert.InDelta(t, 9.2, projected.Sugar.Value, 1e-9)
	assert.InDelta(t, 0.92, projected.Sodium.Value, 1e-9)
	assert.InDelta(t, 4.6, projected.SaturatedFat.Value, 1e-9)
	// 輸入不可被修改
	assert.InDelta(t, 10.0, perServing.Sugar.Value, 1e-9)
}

func TestProjectShareFloor(t *testing.T) {
	projector := NewProjector(fixedImprovement(30))
	perServing := common.NutritionProfile{Sugar: common.KnownNutrient(9)}

	// 食材只有 1 個，分母仍為 3：9 - 9*(1/3)*0.3 = 8.1
	projected := projector.Project(perServing, map[string]string{"sugar": "honey"}, 1)
	assert.InDelta(t, 8.1, projected.Sugar.Value, 1e-9)
}

func TestProjectNeverNegative(t *testing.T) {
	projector := NewProjector(fixedImprovement(100))
	perServing := common.NutritionProfile{
		Sugar:    common.KnownNutrient(0),
		TransFat: common.KnownNutrient(0.05),
	}

	accepted := map[string]string{
		"a": "x",
		"b": "y",
		"c": "z",
	}
	projected := projector.Project(perServing, accepted, 3)

	assert.GreaterOrEqual(t, projected.Sugar.Value, 0.0)
	assert.GreaterOrEqual(t, projected.TransFat.Value, 0.0)
	assert.GreaterOrEqual(t, projected.Sodium.Value, 0.0)
}

func TestProjectZeroImprovementIsNoOp(t *testing.T) {
	projector := NewProjector(fixedImprovement(0))
	perServing := common.NutritionProfile{Sugar: common.KnownNutrient(10)}

	projected := projector.Project(perServing, map[string]string{"butter": "margarine"}, 4)

	// 改善幅度為 0 時數值不變（但未知欄位已套用基準值）
	assert.InDelta(t, 10.0, projected.Sugar.Value, 1e-9)
}
