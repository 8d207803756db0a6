package api

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/display-service/internal/display"
	"github.com/wfunc/display-service/internal/models"
	"github.com/wfunc/display-service/internal/repository"
	"go.uber.org/zap"
)

// RecordingHandler 指令录制处理器
type RecordingHandler struct {
	manager *display.Manager
	repo    repository.RecordingRepository
	// 未命名的录制停止时也自动落库
	autoPersist bool
	logger      *zap.Logger
}

// NewRecordingHandler 创建指令录制处理器
func NewRecordingHandler(manager *display.Manager, repo repository.RecordingRepository, autoPersist bool, logger *zap.Logger) *RecordingHandler {
	return &RecordingHandler{
		manager:     manager,
		repo:        repo,
		autoPersist: autoPersist,
		logger:      logger,
	}
}

// RegisterRoutes 注册路由
func (h *RecordingHandler) RegisterRoutes(router *gin.RouterGroup) {
	r := router.Group("/recordings")
	{
		r.POST("/start", h.Start)
		r.POST("/stop", h.Stop)
		r.GET("", h.List)
		r.GET("/:id", h.Get)
		r.POST("/:id/replay", h.Replay)
		r.DELETE("/:id", h.Delete)
	}
}

// Start 开始录制
// @Summary 开始录制指令流
// @Tags Recording
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/recordings/start [post]
func (h *RecordingHandler) Start(c *gin.Context) {
	err := h.manager.Execute(func(d *display.Display) error {
		d.StartRecording()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "RECORDING_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "录制已开始"})
}

// StopRequest 停止录制请求，Name非空时录制结果入库
type StopRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Stop 停止录制
// @Summary 停止录制并可选保存
// @Tags Recording
// @Accept json
// @Produce json
// @Param request body StopRequest false "保存信息"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/recordings/stop [post]
func (h *RecordingHandler) Stop(c *gin.Context) {
	var req StopRequest
	// body可为空
	_ = c.ShouldBindJSON(&req)

	var data []byte
	err := h.manager.Execute(func(d *display.Display) error {
		data = d.StopRecording()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "RECORDING_FAILED",
			Message: err.Error(),
		})
		return
	}

	if data == nil {
		c.JSON(http.StatusOK, SuccessResponse{
			Message: "当前没有进行中的录制",
			Data:    gin.H{"size": 0},
		})
		return
	}

	resp := gin.H{"size": len(data)}

	// 开启自动落库时为未命名录制生成名称
	if req.Name == "" && h.autoPersist {
		req.Name = "录制-" + time.Now().Format("20060102-150405")
	}

	// 指定了名称则持久化
	if req.Name != "" {
		recording := &models.Recording{
			Name:        req.Name,
			Description: req.Description,
			Data:        data,
		}
		if err := h.repo.Create(c.Request.Context(), recording); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    "SAVE_FAILED",
				Message: "录制保存失败",
				Details: err.Error(),
			})
			return
		}
		resp["id"] = recording.ID
		resp["name"] = recording.Name
		h.logger.Info("录制已保存",
			zap.Uint("id", recording.ID),
			zap.String("name", recording.Name),
			zap.Int("size", len(data)))
	} else {
		// 未命名的录制直接以base64返回
		resp["data"] = base64.StdEncoding.EncodeToString(data)
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "录制已停止",
		Data:    resp,
	})
}

// List 录制列表
// @Summary 查询录制列表
// @Tags Recording
// @Produce json
// @Param name query string false "名称模糊匹配"
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/recordings [get]
func (h *RecordingHandler) List(c *gin.Context) {
	query := &models.RecordingQuery{
		Name:    c.Query("name"),
		OrderBy: c.DefaultQuery("order_by", "created_at DESC"),
	}
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	// 时间范围
	if start := c.Query("start_time"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			query.StartTime = &t
		}
	}
	if end := c.Query("end_time"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			query.EndTime = &t
		}
	}

	recordings, total, err := h.repo.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "QUERY_FAILED",
			Message: "查询失败",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   recordings,
		"total":  total,
		"limit":  query.Limit,
		"offset": query.Offset,
	})
}

// Get 获取单条录制
// @Summary 获取录制详情
// @Tags Recording
// @Produce json
// @Param id path int true "录制ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/recordings/{id} [get]
func (h *RecordingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "无效的录制ID",
		})
		return
	}

	recording, err := h.repo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "录制不存在",
		})
		return
	}

	resp := gin.H{
		"id":           recording.ID,
		"name":         recording.Name,
		"description":  recording.Description,
		"size":         recording.Size,
		"replay_count": recording.ReplayCount,
		"created_at":   recording.CreatedAt,
	}
	if recording.LastReplayAt != nil {
		resp["last_replay_at"] = recording.LastReplayAt
	}
	// 指令流按需下载
	if c.Query("include_data") == "true" {
		resp["data"] = base64.StdEncoding.EncodeToString(recording.Data)
	}

	c.JSON(http.StatusOK, resp)
}

// Replay 重放录制
// @Summary 重放录制的指令流
// @Tags Recording
// @Produce json
// @Param id path int true "录制ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/recordings/{id}/replay [post]
func (h *RecordingHandler) Replay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "无效的录制ID",
		})
		return
	}

	recording, err := h.repo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "录制不存在",
		})
		return
	}

	if err := h.manager.Execute(func(d *display.Display) error {
		return d.ExecuteScript(recording.Data)
	}); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "REPLAY_FAILED",
			Message: "重放失败",
			Details: err.Error(),
		})
		return
	}

	if err := h.repo.MarkReplayed(c.Request.Context(), recording.ID); err != nil {
		h.logger.Warn("更新重放计数失败",
			zap.Uint("id", recording.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "重放完成",
		Data:    gin.H{"id": recording.ID, "size": recording.Size},
	})
}

// Delete 删除录制
// @Summary 删除录制
// @Tags Recording
// @Produce json
// @Param id path int true "录制ID"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/recordings/{id} [delete]
func (h *RecordingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "无效的录制ID",
		})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "DELETE_FAILED",
			Message: "删除失败",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "录制已删除"})
}
