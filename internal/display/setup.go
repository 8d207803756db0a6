package display

import "github.com/wfunc/display-service/internal/errors"

// 设备配置指令

// UploadStartScreen 上传开机画面
// 数据走慢速成批传输，单色模块和彩色模块的数据结构不同。
func (d *Display) UploadStartScreen(data []byte) error {
	if len(data) == 0 {
		return errors.New(errors.ErrInvalidParam, "empty start screen data")
	}
	if err := d.send("SSS"); err != nil {
		return err
	}
	return d.writer.SendPaced(data)
}

// EnableStartScreen 开关开机画面，f为0时下次上电不再显示
func (d *Display) EnableStartScreen(f int) error {
	return d.send("DSS", f)
}

// ShowConfiguration 开关上电时的配置信息显示
// 配置信息包含UART波特率或I2C从机地址。
func (d *Display) ShowConfiguration(f int) error {
	return d.send("DC", f)
}

// ChangeI2CAddress 修改I2C从机地址（出厂0x27）
// 仅I2C模式有效，新地址立即生效并写入内部存储。
func (d *Display) ChangeI2CAddress(addr int) error {
	return d.send("SI2CA", addr)
}

// Delay 让设备暂停一段时间，b取1约为0.25秒
// 固件3.9引入，该版本在I2C/SPI模式下有挂死缺陷，4.0修复。
func (d *Display) Delay(b int) error {
	return d.send("DLY", b)
}

// SendScreenCommand 直接向屏幕控制器发命令字节（未公开指令）
func (d *Display) SendScreenCommand(b int) error {
	return d.send("MCD", b)
}

// SendScreenData 直接向屏幕控制器发数据字节（未公开指令）
func (d *Display) SendScreenData(b int) error {
	return d.send("MDT", b)
}
