package display

import "github.com/wfunc/display-service/internal/errors"

// 绘图类指令

// ClearScreen 清屏
// 以当前背景色填充整屏，同时重置字体、旋转方向、绘制模式、
// 绘制窗口和线型。
func (d *Display) ClearScreen() error {
	return d.send("CL")
}

// SetGraphicPosition 以像素精度设置当前光标，左上角为(0, 0)
func (d *Display) SetGraphicPosition(x, y int) error {
	return d.send("GP", x, y)
}

// DrawPixel 以前景色在(x, y)画一个像素，受绘制模式影响，不移动光标
func (d *Display) DrawPixel(x, y int) error {
	return d.send("DP", x, y)
}

// DrawLine 画线段(x1, y1)-(x2, y2)
func (d *Display) DrawLine(x1, y1, x2, y2 int) error {
	return d.send("LN", x1, y1, x2, y2)
}

// DrawLineTo 从当前光标画线到(x, y)
func (d *Display) DrawLineTo(x, y int) error {
	return d.send("LT", x, y)
}

// DrawRectangle 画矩形，filled为真时填充
// 光标移动到右下角。
func (d *Display) DrawRectangle(x, y, w, h int, filled bool) error {
	if filled {
		return d.send("FR", x, y, x+w, y+h)
	}
	return d.send("DR", x, y, x+w, y+h)
}

// DrawCircle 画圆，半径r，filled为真时填充
// 受前景色和绘制模式影响，不受线型影响。光标移动到圆心。
func (d *Display) DrawCircle(x, y, r int, filled bool) error {
	f := 0
	if filled {
		f = 1
	}
	return d.send("CC", x, y, r, f)
}

// DrawImage 在(x, y)绘制图像
// mode为0时为单色位图（DIM），1/2/3为每像素字节数的彩色图
// （EDIM1/2/3）。彩色模式下数据长度必须等于mode*w*h，不符时
// 在发送任何字节前报错，避免设备停在协议中途等待数据。
func (d *Display) DrawImage(mode, x, y, w, h int, data []byte) error {
	if mode == 0 {
		return d.send("DIM", x, y, w, h, data)
	}
	if mode < 1 || mode > 3 {
		return errors.Newf(errors.ErrInvalidParam, "image mode %d", mode)
	}
	if data != nil && len(data) != mode*w*h {
		return errors.Newf(errors.ErrImageSize, "want %d bytes, got %d", mode*w*h, len(data))
	}
	opcode := "EDIM" + string(rune('0'+mode))
	return d.send(opcode, x, y, w, h, data)
}

// VideoBox 定义视频盒并直接向屏幕面板送原始像素数据
// (x, y)为盒子左上角像素坐标，w、h范围0~255，f指示色深
// （0为16位色）。
func (d *Display) VideoBox(x, y, w, h, f int, data []byte) error {
	return d.send("VIDEO", x, y, w, h, f, data)
}

// MoveArea 将区域(x, y)-(x+w, y+h)移动到(x+ox, y+oy)
// ox、oy范围-127~127，可用于四向滚屏。
func (d *Display) MoveArea(x, y, w, h, ox, oy int) error {
	return d.send("MA", x, y, w, h, ox, oy)
}
