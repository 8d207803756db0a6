package display

// 绘图参数设置指令

// SetColor 设置前景色（调色板索引）
func (d *Display) SetColor(c int) error {
	return d.send("SC", c)
}

// SetRGBColor 设置前景色（真彩），各分量0~255，设备取高6位
func (d *Display) SetRGBColor(r, g, b int) error {
	return d.send("ESC", r>>2, g>>2, b>>2)
}

// SetBgColor 设置背景色
// 浅色背景下屏幕电流更大，供电不稳时设备可能停在错误状态。
func (d *Display) SetBgColor(color int) error {
	return d.send("BGC", color)
}

// SetLineStyle 设置线型
// b的8个bit循环决定画线时各像素是否显示，如0x55画出点线。
func (d *Display) SetLineStyle(b int) error {
	return d.send("SLP", b)
}

// SetOrientation 设置屏幕方向
// 0为原始方向，1/2/3分别为顺时针90/180/270度。
func (d *Display) SetOrientation(direction int) error {
	return d.send("SD", direction)
}

// SetDrawMode 设置绘制模式
// mode为{C,|,!,~,&,^,O,o}之一：'C'为覆盖模式，TT指令在该模式下
// 还会以背景色清空字符框，其余模式不清空。
func (d *Display) SetDrawMode(mode string) error {
	return d.send("DM", mode)
}

// SetDrawWindow 设置绘制窗口
// 之后的输出都落在该矩形内，坐标系原点变为窗口左上角。
// 固件3.2及以上支持。
func (d *Display) SetDrawWindow(x, y, w, h int) error {
	return d.send("DWWIN", x, y, w, h)
}

// ResetDrawWindow 取消绘制窗口，坐标系恢复为整屏
func (d *Display) ResetDrawWindow() error {
	return d.send("RSTDW")
}

// ClearDrawWindow 以背景色清空绘制窗口
func (d *Display) ClearDrawWindow() error {
	return d.send("WINCL")
}

// SetImageBackgroundTransparent 设置图像黑色像素是否透明
func (d *Display) SetImageBackgroundTransparent(f int) error {
	return d.send("TRANS", f)
}
