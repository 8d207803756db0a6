package display

import "fmt"

// encodeArgs 将指令码和参数序列化为线上格式
// 参数按类型编码：[]byte原样追加；int大于等于255时按扩展字节方案编码
// （每个0xFF消耗255，余数0~254作为末字节）；nil跳过；string按UTF-8编码
// 并追加单个零字节结尾；其余类型先转为文本表示再按string处理。
// 负数或超出表示范围的整数属调用方契约违规，此处不做检查。
func encodeArgs(opcode []byte, args ...interface{}) []byte {
	buf := make([]byte, 0, len(opcode)+len(args)*2)
	buf = append(buf, opcode...)

	for _, arg := range args {
		if arg == nil {
			continue
		}
		switch v := arg.(type) {
		case []byte:
			buf = append(buf, v...)
		case int:
			for v >= 255 {
				buf = append(buf, 0xFF)
				v -= 255
			}
			buf = append(buf, byte(v))
		case string:
			buf = append(buf, v...)
			buf = append(buf, 0)
		default:
			buf = append(buf, fmt.Sprint(v)...)
			buf = append(buf, 0)
		}
	}
	return buf
}

// Encode 编码一条完整指令（指令码ASCII标签+参数列表）
// 仅做序列化，不产生任何副作用，也不会阻塞。
func Encode(opcode string, args ...interface{}) []byte {
	return encodeArgs([]byte(opcode), args...)
}
