package display

// 文本类指令
// 文本光标由设备按当前字体尺寸自动推进，\n和\r分别移动到下一行
// 和当前行首。

// 对齐方式
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// PrintText 在当前位置显示文本
func (d *Display) PrintText(text string) error {
	return d.send("TT", text)
}

// PrintTextAt 在指定像素位置按对齐方式显示文本
// y为文本基线而非顶边。align取AlignLeft/AlignCenter/AlignRight。
func (d *Display) PrintTextAt(x, y int, text string, align int) error {
	if err := d.SetGraphicPosition(x, y); err != nil {
		return err
	}
	if err := d.send("ALIGN", align); err != nil {
		return err
	}
	return d.PrintText(text)
}

// NewLine 文本光标移动到下一行行首，行高取决于当前字体
func (d *Display) NewLine() error {
	return d.send("TRT")
}

// SetTextPosition 设置文本光标
// c、r为按字体尺寸折算的列、行值，左上角为(0, 0)。
func (d *Display) SetTextPosition(c, r int) error {
	return d.send("TP", c, r)
}

// ReturnToLastTextPos 文本光标退回上一个位置
// 每打印一个字符后光标自动推进，设备记住前一位置，借此可在
// 同一位置叠印多个字符。
func (d *Display) ReturnToLastTextPos() error {
	return d.send("ETB")
}

// OffsetTextPosition 相对移动文本光标，x、y范围-127~127
func (d *Display) OffsetTextPosition(x, y int) error {
	return d.send("ETO", x, y)
}

// PrintBold 以粗体显示文本
// 通过错位叠印实现，会把绘制模式切到OR('|')。
func (d *Display) PrintBold(text string) error {
	if err := d.SetDrawMode("|"); err != nil {
		return err
	}
	for _, c := range text {
		s := string(c)
		if err := d.PrintText(s); err != nil {
			return err
		}
		if err := d.ReturnToLastTextPos(); err != nil {
			return err
		}
		if err := d.OffsetTextPosition(1, 1); err != nil {
			return err
		}
		if err := d.PrintText(s); err != nil {
			return err
		}
		if err := d.OffsetTextPosition(-1, -1); err != nil {
			return err
		}
	}
	return nil
}

// PrintUnderlined 以下划线样式显示文本
// 通过叠印下划线字符实现，效果依赖当前字体，会把绘制模式切到OR('|')。
func (d *Display) PrintUnderlined(text string) error {
	if err := d.SetDrawMode("|"); err != nil {
		return err
	}
	for _, c := range text {
		if err := d.OffsetTextPosition(0, 1); err != nil {
			return err
		}
		if err := d.PrintText("_"); err != nil {
			return err
		}
		if err := d.ReturnToLastTextPos(); err != nil {
			return err
		}
		if err := d.OffsetTextPosition(0, -1); err != nil {
			return err
		}
		if err := d.PrintText(string(c)); err != nil {
			return err
		}
	}
	return nil
}
