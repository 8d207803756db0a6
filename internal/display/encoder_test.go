package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEncodeInteger 测试整数的扩展字节编码
func TestEncodeInteger(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  []byte
	}{
		{"零", 0, []byte{0}},
		{"单字节最大值", 254, []byte{254}},
		{"临界值255", 255, []byte{0xFF, 0}},
		{"一个扩展字节", 300, []byte{0xFF, 45}},
		{"两个扩展字节", 600, []byte{0xFF, 0xFF, 90}},
		{"恰好两倍", 510, []byte{0xFF, 0xFF, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode("", tt.value)
			assert.Equal(t, tt.want, got)

			// 扩展字节数*255加末字节应还原出原值
			sum := 0
			for _, b := range got {
				if b == 0xFF {
					sum += 255
				} else {
					sum += int(b)
				}
			}
			assert.Equal(t, tt.value, sum)
		})
	}
}

// TestEncodeArgumentTypes 测试各类型参数的编码规则
func TestEncodeArgumentTypes(t *testing.T) {
	t.Run("原始字节原样追加", func(t *testing.T) {
		got := Encode("XX", []byte{0x01, 0xFF, 0x00})
		assert.Equal(t, []byte{'X', 'X', 0x01, 0xFF, 0x00}, got)
	})

	t.Run("字符串以零字节结尾", func(t *testing.T) {
		got := Encode("TT", "hi")
		assert.Equal(t, []byte{'T', 'T', 'h', 'i', 0}, got)
	})

	t.Run("UTF8字符串", func(t *testing.T) {
		got := Encode("TT", "中")
		want := append([]byte{'T', 'T'}, []byte("中")...)
		want = append(want, 0)
		assert.Equal(t, want, got)
	})

	t.Run("nil参数被跳过", func(t *testing.T) {
		got := Encode("DIM", 1, nil, 2)
		assert.Equal(t, []byte{'D', 'I', 'M', 1, 2}, got)
	})

	t.Run("其他类型转为文本表示", func(t *testing.T) {
		got := Encode("TT", 3.5)
		assert.Equal(t, []byte{'T', 'T', '3', '.', '5', 0}, got)

		got = Encode("TT", true)
		assert.Equal(t, []byte{'T', 'T', 't', 'r', 'u', 'e', 0}, got)
	})

	t.Run("混合参数保持顺序", func(t *testing.T) {
		got := Encode("LN", 10, 300, "a", []byte{0x7F})
		assert.Equal(t, []byte{'L', 'N', 10, 0xFF, 45, 'a', 0, 0x7F}, got)
	})

	t.Run("无参数仅有指令码", func(t *testing.T) {
		assert.Equal(t, []byte("CL"), Encode("CL"))
	})
}
