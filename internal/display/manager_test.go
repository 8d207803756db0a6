package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/display-service/internal/config"
)

// newTestManager 创建mock模式的管理器
func newTestManager(t *testing.T) (*Manager, *MockBus) {
	cfg := &config.DisplayConfig{
		Enabled:      true,
		MockMode:     true,
		Address:      DefaultAddress,
		ChunkSize:    DefaultChunkSize,
		PollInterval: 10 * time.Millisecond,
		ReadyTimeout: time.Second,
		Recording:    config.RecordingConfig{MaxSize: 65536},
	}

	m := NewManager(cfg)
	require.NoError(t, m.Initialize())

	bus, ok := m.bus.(*MockBus)
	require.True(t, ok)
	return m, bus
}

// TestManagerLifecycle 测试启动停止
func TestManagerLifecycle(t *testing.T) {
	m, _ := newTestManager(t)

	assert.False(t, m.IsRunning())
	require.NoError(t, m.Start())
	assert.True(t, m.IsRunning())

	// 重复Start为空操作
	require.NoError(t, m.Start())

	require.NoError(t, m.Stop())
	assert.False(t, m.IsRunning())
	require.NoError(t, m.Stop())
}

// TestManagerExecute 测试指令经管理器串行化执行
func TestManagerExecute(t *testing.T) {
	m, bus := newTestManager(t)
	require.NoError(t, m.Start())
	defer m.Stop()

	require.NoError(t, m.Execute(func(d *Display) error {
		return d.PrintText("hi")
	}))

	// 就绪探测之后跟指令字节
	writes := bus.Writes()
	require.GreaterOrEqual(t, len(writes), 2)
	assert.Equal(t, []byte{'T', 'T', 'h', 'i', 0}, writes[len(writes)-1])

	stats := m.GetStats()
	assert.Equal(t, uint64(1), stats.CommandsSent)
}

// TestManagerEventDispatch 测试轮询协程分发上报事件
func TestManagerEventDispatch(t *testing.T) {
	m, bus := newTestManager(t)

	received := make(chan Event, 1)
	m.OnEvent(func(event Event) {
		received <- event
	})

	require.NoError(t, m.Start())
	defer m.Stop()

	require.NoError(t, m.Execute(func(d *Display) error {
		return d.ReadVoltage()
	}))
	bus.QueueReadInt(4800)

	select {
	case event := <-received:
		assert.Equal(t, EventVoltage, event.Kind)
		assert.Equal(t, []float64{4800}, event.Values)
	case <-time.After(time.Second):
		t.Fatal("event not dispatched")
	}

	stats := m.GetStats()
	assert.Equal(t, uint64(1), stats.EventsEmitted)
}

// TestManagerExecuteBeforeInitialize 测试未初始化时的保护
func TestManagerExecuteBeforeInitialize(t *testing.T) {
	m := NewManager(&config.DisplayConfig{MockMode: true})
	err := m.Execute(func(d *Display) error { return nil })
	require.Error(t, err)
}
