package display

import (
	"sync"

	"github.com/wfunc/display-service/internal/errors"
)

// MockBus 模拟总线
// 用于单元测试和mock_mode运行：记录全部写入，按FIFO回放预置的读取数据。
type MockBus struct {
	mu sync.Mutex

	// 写入记录，每个元素对应一次Write调用
	writes [][]byte

	// 预置的读取队列，每个元素对应一次Read的返回
	reads [][]byte

	// 错误注入
	writeErr error
	readErr  error

	// 第N次写入后开始返回writeErr（0表示立即生效）
	failAfter int
}

// NewMockBus 创建模拟总线
func NewMockBus() *MockBus {
	return &MockBus{}
}

// Write 记录写入数据
func (m *MockBus) Write(addr int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil && len(m.writes) >= m.failAfter {
		return m.writeErr
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.writes = append(m.writes, buf)
	return nil
}

// Read 按FIFO返回预置数据，队列为空时返回超时
func (m *MockBus) Read(addr int, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.reads) == 0 {
		return nil, errors.New(errors.ErrBusTimeout)
	}

	data := m.reads[0]
	m.reads = m.reads[1:]
	return data, nil
}

// QueueRead 预置一次读取的返回数据
func (m *MockBus) QueueRead(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, data)
}

// QueueReadInt 预置一个大端双字节整数
func (m *MockBus) QueueReadInt(v int) {
	m.QueueRead([]byte{byte(v >> 8), byte(v & 0xFF)})
}

// Writes 返回全部写入记录的副本
func (m *MockBus) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		buf := make([]byte, len(w))
		copy(buf, w)
		out[i] = buf
	}
	return out
}

// Written 返回全部写入按顺序拼接后的字节流
func (m *MockBus) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []byte
	for _, w := range m.writes {
		out = append(out, w...)
	}
	return out
}

// Reset 清空写入记录和读取队列
func (m *MockBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
	m.reads = nil
	m.writeErr = nil
	m.readErr = nil
	m.failAfter = 0
}

// SetWriteError 注入写入错误，在第n次写入之后生效
func (m *MockBus) SetWriteError(err error, afterWrites int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
	m.failAfter = afterWrites
}

// SetReadError 注入读取错误
func (m *MockBus) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}
