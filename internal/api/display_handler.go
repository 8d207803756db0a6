package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/display-service/internal/display"
	"github.com/wfunc/display-service/internal/errors"
	"go.uber.org/zap"
)

// DisplayHandler 显示屏控制处理器
type DisplayHandler struct {
	manager *display.Manager
	logger  *zap.Logger
}

// NewDisplayHandler 创建显示屏控制处理器
func NewDisplayHandler(manager *display.Manager, logger *zap.Logger) *DisplayHandler {
	return &DisplayHandler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes 注册路由
func (h *DisplayHandler) RegisterRoutes(router *gin.RouterGroup) {
	d := router.Group("/display")
	{
		d.GET("/status", h.GetStatus)
		d.POST("/text", h.PrintText)
		d.POST("/clear", h.ClearScreen)
		d.POST("/font", h.SetFont)
		d.POST("/color", h.SetColor)
		d.POST("/backlight", h.SetBacklight)
		d.POST("/power", h.Power)
		d.POST("/image", h.DrawImage)
		d.POST("/script", h.ExecuteScript)

		draw := d.Group("/draw")
		{
			draw.POST("/pixel", h.DrawPixel)
			draw.POST("/line", h.DrawLine)
			draw.POST("/rect", h.DrawRectangle)
			draw.POST("/circle", h.DrawCircle)
		}

		read := d.Group("/read")
		{
			read.POST("/touch", h.readOp(func(d *display.Display) error { return d.ReadTouchScreen() }))
			read.POST("/click", h.readOp(func(d *display.Display) error { return d.ReadClick() }))
			read.POST("/analog", h.readOp(func(d *display.Display) error { return d.ReadAnalog() }))
			read.POST("/temperature", h.readOp(func(d *display.Display) error { return d.ReadTemperature() }))
			read.POST("/voltage", h.readOp(func(d *display.Display) error { return d.ReadVoltage() }))
		}
	}
}

// execute 执行显示屏命令并统一处理错误响应
func (h *DisplayHandler) execute(c *gin.Context, fn func(d *display.Display) error) bool {
	if err := h.manager.Execute(fn); err != nil {
		status := http.StatusInternalServerError
		switch errors.GetCode(err) {
		case errors.ErrEncodeArgument, errors.ErrImageSize, errors.ErrInvalidParam:
			status = http.StatusBadRequest
		case errors.ErrDeviceOffline, errors.ErrBusNotReady:
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{
			Code:    "DISPLAY_COMMAND_FAILED",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// GetStatus 获取设备状态
// @Summary 获取显示屏状态
// @Tags Display
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/display/status [get]
func (h *DisplayHandler) GetStatus(c *gin.Context) {
	stats := h.manager.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"running":        h.manager.IsRunning(),
		"commands_sent":  stats.CommandsSent,
		"events_emitted": stats.EventsEmitted,
		"poll_errors":    stats.PollErrors,
		"start_time":     stats.StartTime,
		"last_event":     stats.LastEventTime,
	})
}

// PrintTextRequest 文本显示请求
type PrintTextRequest struct {
	Text  string `json:"text" binding:"required"`
	X     *int   `json:"x,omitempty"`
	Y     *int   `json:"y,omitempty"`
	Align int    `json:"align,omitempty"` // 0左 1中 2右
	Style string `json:"style,omitempty"` // bold / underline
}

// PrintText 显示文本
// @Summary 显示文本
// @Tags Display
// @Accept json
// @Produce json
// @Param request body PrintTextRequest true "文本内容"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/text [post]
func (h *DisplayHandler) PrintText(c *gin.Context) {
	var req PrintTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	ok := h.execute(c, func(d *display.Display) error {
		if req.X != nil && req.Y != nil {
			return d.PrintTextAt(*req.X, *req.Y, req.Text, req.Align)
		}
		switch req.Style {
		case "bold":
			return d.PrintBold(req.Text)
		case "underline":
			return d.PrintUnderlined(req.Text)
		default:
			return d.PrintText(req.Text)
		}
	})
	if ok {
		c.JSON(http.StatusOK, SuccessResponse{Message: "文本已发送"})
	}
}

// ClearScreen 清屏
// @Summary 清屏
// @Tags Display
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/clear [post]
func (h *DisplayHandler) ClearScreen(c *gin.Context) {
	if h.execute(c, func(d *display.Display) error { return d.ClearScreen() }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "已清屏"})
	}
}

// SetFontRequest 字体设置请求
type SetFontRequest struct {
	Index int `json:"index"`
}

// SetFont 设置字体
// @Summary 设置字体
// @Tags Display
// @Accept json
// @Produce json
// @Param request body SetFontRequest true "字体索引"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/font [post]
func (h *DisplayHandler) SetFont(c *gin.Context) {
	var req SetFontRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.SetFont(req.Index) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "字体已设置"})
	}
}

// SetColorRequest 颜色设置请求，Color与RGB二选一
type SetColorRequest struct {
	Color      *int `json:"color,omitempty"`
	R          *int `json:"r,omitempty"`
	G          *int `json:"g,omitempty"`
	B          *int `json:"b,omitempty"`
	Background bool `json:"background,omitempty"`
}

// SetColor 设置前景/背景颜色
// @Summary 设置颜色
// @Tags Display
// @Accept json
// @Produce json
// @Param request body SetColorRequest true "颜色"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/color [post]
func (h *DisplayHandler) SetColor(c *gin.Context) {
	var req SetColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	ok := h.execute(c, func(d *display.Display) error {
		if req.Background {
			if req.Color == nil {
				return errors.New(errors.ErrInvalidParam, "背景色只支持单值颜色")
			}
			return d.SetBgColor(*req.Color)
		}
		if req.R != nil && req.G != nil && req.B != nil {
			return d.SetRGBColor(*req.R, *req.G, *req.B)
		}
		if req.Color != nil {
			return d.SetColor(*req.Color)
		}
		return errors.New(errors.ErrInvalidParam, "缺少颜色参数")
	})
	if ok {
		c.JSON(http.StatusOK, SuccessResponse{Message: "颜色已设置"})
	}
}

// SetBacklightRequest 背光设置请求
type SetBacklightRequest struct {
	Percentage int `json:"percentage" binding:"min=0,max=100"`
}

// SetBacklight 设置背光亮度
// @Summary 设置背光
// @Tags Display
// @Accept json
// @Produce json
// @Param request body SetBacklightRequest true "亮度百分比"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/backlight [post]
func (h *DisplayHandler) SetBacklight(c *gin.Context) {
	var req SetBacklightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.SetBacklight(req.Percentage) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "背光已设置"})
	}
}

// PowerRequest 电源控制请求
type PowerRequest struct {
	Action string `json:"action" binding:"required"` // screen_on / screen_off / mcu_off / all_off / wake
}

// Power 电源控制
// @Summary 电源控制
// @Tags Display
// @Accept json
// @Produce json
// @Param request body PowerRequest true "动作"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/power [post]
func (h *DisplayHandler) Power(c *gin.Context) {
	var req PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	ok := h.execute(c, func(d *display.Display) error {
		switch req.Action {
		case "screen_on":
			return d.TurnScreenOn(1)
		case "screen_off":
			return d.TurnScreenOn(0)
		case "mcu_off":
			return d.TurnMCUOff()
		case "all_off":
			return d.TurnModuleOff()
		case "wake":
			return d.WakeUp()
		default:
			return errors.Newf(errors.ErrInvalidParam, "未知的电源动作: %s", req.Action)
		}
	})
	if ok {
		c.JSON(http.StatusOK, SuccessResponse{Message: "电源动作已执行"})
	}
}

// DrawImageRequest 图片绘制请求，Data为base64编码的像素数据
type DrawImageRequest struct {
	Mode int    `json:"mode"` // 0单色 1/2/3为每像素字节数
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w" binding:"required"`
	H    int    `json:"h" binding:"required"`
	Data string `json:"data" binding:"required"`
}

// DrawImage 绘制图片
// @Summary 绘制图片
// @Tags Display
// @Accept json
// @Produce json
// @Param request body DrawImageRequest true "图片数据"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/display/image [post]
func (h *DisplayHandler) DrawImage(c *gin.Context) {
	var req DrawImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "图片数据不是有效的base64",
		})
		return
	}

	ok := h.execute(c, func(d *display.Display) error {
		return d.DrawImage(req.Mode, req.X, req.Y, req.W, req.H, data)
	})
	if ok {
		c.JSON(http.StatusOK, SuccessResponse{Message: "图片已发送"})
	}
}

// ExecuteScriptRequest 指令脚本执行请求
type ExecuteScriptRequest struct {
	Data string `json:"data" binding:"required"` // base64编码的指令流
}

// ExecuteScript 执行原始指令流
// @Summary 执行指令脚本
// @Tags Display
// @Accept json
// @Produce json
// @Param request body ExecuteScriptRequest true "指令流"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/script [post]
func (h *DisplayHandler) ExecuteScript(c *gin.Context) {
	var req ExecuteScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "指令流不是有效的base64",
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.ExecuteScript(data) }) {
		c.JSON(http.StatusOK, SuccessResponse{
			Message: "指令流已执行",
			Data:    gin.H{"size": len(data)},
		})
	}
}

// DrawPixelRequest 画点请求
type DrawPixelRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DrawPixel 画点
// @Summary 画点
// @Tags Display
// @Accept json
// @Produce json
// @Param request body DrawPixelRequest true "坐标"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/draw/pixel [post]
func (h *DisplayHandler) DrawPixel(c *gin.Context) {
	var req DrawPixelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.DrawPixel(req.X, req.Y) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "已绘制"})
	}
}

// DrawLineRequest 画线请求
type DrawLineRequest struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// DrawLine 画线
// @Summary 画线
// @Tags Display
// @Accept json
// @Produce json
// @Param request body DrawLineRequest true "起止坐标"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/draw/line [post]
func (h *DisplayHandler) DrawLine(c *gin.Context) {
	var req DrawLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.DrawLine(req.X1, req.Y1, req.X2, req.Y2) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "已绘制"})
	}
}

// DrawRectRequest 画矩形请求
type DrawRectRequest struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	W      int  `json:"w" binding:"required"`
	H      int  `json:"h" binding:"required"`
	Filled bool `json:"filled"`
}

// DrawRectangle 画矩形
// @Summary 画矩形
// @Tags Display
// @Accept json
// @Produce json
// @Param request body DrawRectRequest true "矩形参数"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/draw/rect [post]
func (h *DisplayHandler) DrawRectangle(c *gin.Context) {
	var req DrawRectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.DrawRectangle(req.X, req.Y, req.W, req.H, req.Filled) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "已绘制"})
	}
}

// DrawCircleRequest 画圆请求
type DrawCircleRequest struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	R      int  `json:"r" binding:"required"`
	Filled bool `json:"filled"`
}

// DrawCircle 画圆
// @Summary 画圆
// @Tags Display
// @Accept json
// @Produce json
// @Param request body DrawCircleRequest true "圆参数"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/display/draw/circle [post]
func (h *DisplayHandler) DrawCircle(c *gin.Context) {
	var req DrawCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if h.execute(c, func(d *display.Display) error { return d.DrawCircle(req.X, req.Y, req.R, req.Filled) }) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "已绘制"})
	}
}

// readOp 触发一次异步读取，结果经轮询后通过WebSocket推送
func (h *DisplayHandler) readOp(fn func(d *display.Display) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.execute(c, fn) {
			c.JSON(http.StatusAccepted, SuccessResponse{
				Message: "读取已触发，结果将通过WebSocket推送",
			})
		}
	}
}
