package display

import "github.com/wfunc/display-service/internal/errors"

// 字体管理指令

// builtinFontTable 内置字体索引到设备字体编号的映射
// 索引6的字体只含数字。
var builtinFontTable = [...]int{0, 6, 10, 18, 51, 120, 123}

// SetFont 选择活动字体
// index为0~6（内置字体）或200~203（用户上传字体）。
func (d *Display) SetFont(index int) error {
	if index < 0 {
		return errors.Newf(errors.ErrInvalidParam, "font index %d", index)
	}
	if index < len(builtinFontTable) {
		index = builtinFontTable[index]
	}
	return d.send("SF", index)
}

// UploadUserFont 上传用户字体到指定槽位
// 字体存入闪存，断电保留。空间不足时设备可能崩溃或写入损坏的
// 字体，此处无法检测。数据走慢速成批传输。
func (d *Display) UploadUserFont(index int, data []byte) error {
	if len(data) == 0 {
		return errors.New(errors.ErrInvalidParam, "empty font data")
	}
	if err := d.send("SUF", index); err != nil {
		return err
	}
	return d.writer.SendPaced(data)
}

// UseFontInFlashChip 使用外部闪存芯片中指定地址起始的字体
func (d *Display) UseFontInFlashChip(address int) error {
	return d.send("SFF", address)
}
