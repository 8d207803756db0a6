package display

// 设备端存储指令
// 板载闪存芯片（2MB~16MB）可存放开机画面、用户字体、命令集和
// 用户数据；无外置芯片时只有16KB内部闪存且数据不可读出。

// RunCommandSet 运行闪存中指定地址起始的命令集
func (d *Display) RunCommandSet(address int) error {
	return d.send("FLMCS", address)
}

// WriteEEPROM 向EEPROM写入数据，address和length各占2字节（MSB在前）
func (d *Display) WriteEEPROM(address, length int, data []byte) error {
	return d.send("WREP", address, length, data)
}

// ReadEEPROM 从EEPROM读出数据
// 指令发出后主控需等设备把数据放到通信口再读取。
func (d *Display) ReadEEPROM(address, length int) error {
	return d.send("RDEP", address, length)
}

// WriteFlash 向闪存写入数据，适用于内部16KB闪存和外置芯片
func (d *Display) WriteFlash(address, length int, data []byte) error {
	return d.send("FLMWR", address, length, data)
}

// ReadFlash 读出外置闪存芯片中的数据
func (d *Display) ReadFlash(address, length int) error {
	return d.send("FLMRD", address, length)
}

// EraseFlash 擦除外置闪存芯片的指定地址段
// 芯片按块擦除，设备会借屏幕面板RAM暂存块内有用数据，擦除期间
// 屏幕左下角可能出现杂乱图像。
func (d *Display) EraseFlash(address, length int) error {
	return d.send("FLMER", address, length)
}
