package display

// 触摸屏与传感器读取指令
// 这组指令会让设备随后上报原始双字节整数，因此全部经
// sendAndRegister发出，由关联器在Poll中配对。

// CalibrateTouchScreen 启动触摸屏校准流程（需依次按压几个点）
func (d *Display) CalibrateTouchScreen() error {
	return d.send("TUCHC")
}

// ReadTouchScreen 读取触摸坐标，屏幕被按下时上报
func (d *Display) ReadTouchScreen() error {
	return d.sendAndRegister("RPNXYW", EventClick)
}

// ReadClick 读取触摸坐标，屏幕被松开时上报
func (d *Display) ReadClick() error {
	return d.sendAndRegister("RPNXYC", EventClick)
}

// CheckTouchScreen 立即读取触摸面板
// ReadTouchScreen/ReadClick会让设备阻塞到屏幕被按压为止；只想
// 查询当前是否按压时用本指令，未按压时设备上报一对超出量程的
// 哨兵值（由关联器丢弃）。
func (d *Display) CheckTouchScreen() error {
	return d.sendAndRegister("RPNXYI", EventClick)
}

// ReadVoltage 读取Vbat引脚电压
// 上报2字节毫伏值（MSB在前），量程0~10000mV，输入阻抗10kΩ。
func (d *Display) ReadVoltage() error {
	return d.sendAndRegister("RDBAT", EventVoltage)
}

// ReadAnalog 读取AUX引脚模拟量
// 原始值范围0~4095对应0~2.5V，实际电压V=d*2.5/4096由关联器换算。
func (d *Display) ReadAnalog() error {
	return d.sendAndRegister("RDAUX", EventAnalog)
}

// ReadTemperature 读取芯片温度
// T=(653-d*2500/4096)/2.1摄氏度由关联器换算，读数受背光发热影响。
func (d *Display) ReadTemperature() error {
	return d.sendAndRegister("RDTMP", EventTemperature)
}
