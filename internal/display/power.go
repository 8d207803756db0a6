package display

// 电源管理指令

// SetBacklight 设置背光亮度，0~100
// 彩屏和单色GLCD支持连续调节，OLED模块不可调。
func (d *Display) SetBacklight(percentage int) error {
	return d.send("BL", percentage)
}

// TurnScreenOn 开关屏幕和背光，f为0时立即关闭
// 关闭后设备只消耗几毫安，屏幕内容保留。
func (d *Display) TurnScreenOn(f int) error {
	return d.send("SOO", f)
}

// TurnMCUOff 让设备MCU进入休眠
// 设备先确认接收缓冲无待处理指令才会休眠。新数据到达自动唤醒，
// I2C模式下需要几个哑字节充当唤醒信号（见WakeUp）。屏幕保持
// 点亮且内容不变。
func (d *Display) TurnMCUOff() error {
	return d.send("DNMCU")
}

// TurnModuleOff 全部断电：背光关、屏幕关、MCU深度休眠
// 电流低于0.05mA，唤醒后背光和屏幕自动恢复，内容不变。
func (d *Display) TurnModuleOff() error {
	return d.send("DNALL")
}

// WakeUp 发送唤醒序列（连续零字节）
// 唤醒后通常需要WaitUntilReady等设备恢复响应。
func (d *Display) WakeUp() error {
	return d.writer.Send([]byte{0, 0, 0, 0})
}
