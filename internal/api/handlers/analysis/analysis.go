package analysis

import (
	"net/http"

	coreanalysis "recipe-health-analyzer/internal/core/analysis"
	"recipe-health-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler 食譜健康分析處理程序
type Handler struct {
	orchestrator *coreanalysis.Orchestrator
}

// NewHandler 創建新的分析處理程序
func NewHandler(orchestrator *coreanalysis.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// HandleAnalyze 分析食譜：評分、風險食材、替代建議與最佳情境投影
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := ensureRequestID(c)

	common.LogInfo("開始處理食譜分析請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req coreanalysis.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "無效的請求格式",
		})
		return
	}

	result, err := h.orchestrator.Analyze(c.Request.Context(), req, requestID)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRecalculate 套用已接受的替代後重新計算營養與評分
func (h *Handler) HandleRecalculate(c *gin.Context) {
	requestID := ensureRequestID(c)

	common.LogInfo("開始處理替代重新計算請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req coreanalysis.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "無效的請求格式",
		})
		return
	}

	result, err := h.orchestrator.Recalculate(c.Request.Context(), req, requestID)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ensureRequestID 取得請求 ID，沒有時生成新的並回寫到響應標頭
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 依錯誤類型對應 HTTP 狀態碼
func respondError(c *gin.Context, requestID string, err error) {
	common.LogError("分析請求處理失敗",
		zap.Error(err),
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
	)

	if customErr, ok := err.(*common.CustomError); ok {
		c.JSON(customErr.Status, common.ErrorResponse{
			Code:    customErr.Code,
			Message: customErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "服務器內部錯誤",
	})
}
