package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/display-service/internal/models"
	"github.com/wfunc/display-service/internal/repository"
)

// DeviceEventAPI 设备事件查询API
type DeviceEventAPI struct {
	repo repository.DeviceEventRepository
}

// NewDeviceEventAPI 创建设备事件API
func NewDeviceEventAPI(repo repository.DeviceEventRepository) *DeviceEventAPI {
	return &DeviceEventAPI{
		repo: repo,
	}
}

// RegisterRoutes 注册路由
func (api *DeviceEventAPI) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", api.QueryEvents)      // 查询事件列表
		events.GET("/latest", api.GetLatest) // 获取最新事件
		events.GET("/stats", api.GetStats)   // 获取统计信息
		events.POST("/cleanup", api.Cleanup) // 清理旧事件
	}
}

// QueryEvents 查询事件列表
func (api *DeviceEventAPI) QueryEvents(c *gin.Context) {
	query := &models.DeviceEventQuery{}

	// 解析查询参数
	query.Kind = c.Query("kind")

	// 时间范围
	if startTime := c.Query("start_time"); startTime != "" {
		if t, err := time.Parse(time.RFC3339, startTime); err == nil {
			query.StartTime = &t
		}
	}
	if endTime := c.Query("end_time"); endTime != "" {
		if t, err := time.Parse(time.RFC3339, endTime); err == nil {
			query.EndTime = &t
		}
	}

	// 分页参数
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	query.OrderBy = c.DefaultQuery("order_by", "created_at DESC")

	events, total, err := api.repo.Query(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询失败",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   events,
		"total":  total,
		"limit":  query.Limit,
		"offset": query.Offset,
	})
}

// GetLatest 获取最新事件
func (api *DeviceEventAPI) GetLatest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	kind := c.Query("kind")

	events, err := api.repo.GetLatest(c.Request.Context(), limit, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "获取失败",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  events,
		"count": len(events),
	})
}

// GetStats 获取统计信息
func (api *DeviceEventAPI) GetStats(c *gin.Context) {
	var startTime, endTime *time.Time

	// 解析时间范围
	if start := c.Query("start_time"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			startTime = &t
		}
	}
	if end := c.Query("end_time"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			endTime = &t
		}
	}

	stats, err := api.repo.GetStats(c.Request.Context(), startTime, endTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "获取统计失败",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Cleanup 清理旧事件
func (api *DeviceEventAPI) Cleanup(c *gin.Context) {
	retentionDays, _ := strconv.Atoi(c.DefaultPostForm("retention_days", "30"))
	if retentionDays < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "保留天数必须大于0",
		})
		return
	}

	before := time.Now().AddDate(0, 0, -retentionDays)
	count, err := api.repo.DeleteOld(c.Request.Context(), before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "清理失败",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "清理成功",
		"deleted":        count,
		"retention_days": retentionDays,
	})
}
