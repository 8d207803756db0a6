package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/display-service/internal/errors"
)

// newTestCorrelator 创建带假时钟的关联器
func newTestCorrelator(bus *MockBus) (*Correlator, *int64) {
	c := NewCorrelator(bus, 0)
	now := new(int64)
	c.SetClock(func() int64 { return *now })
	return c, now
}

// TestCorrelatorAnalogTransform 测试模拟量换算
func TestCorrelatorAnalogTransform(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventAnalog)
	bus.QueueReadInt(4096)

	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventAnalog, events[0].Kind)
	// V = 4096 * 2.5 / 4096 = 2.5
	assert.Equal(t, 2.5, events[0].Values[0])
	assert.Equal(t, 4096.0, events[0].Values[1])
}

// TestCorrelatorTemperatureTransform 测试温度换算
func TestCorrelatorTemperatureTransform(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventTemperature)
	bus.QueueReadInt(0)

	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	// T = (653 - 0) / 2.1 ≈ 310.95
	assert.InDelta(t, 310.95, events[0].Values[0], 0.01)
	assert.Equal(t, 0.0, events[0].Values[1])
}

// TestCorrelatorVoltagePassthrough 测试电压原始毫伏值透传
func TestCorrelatorVoltagePassthrough(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventVoltage)
	// 18*256+192 = 4800mV
	bus.QueueRead([]byte{18, 192})

	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []float64{4800}, events[0].Values)
}

// TestCorrelatorFIFOBinding 测试多请求按发出顺序严格配对
func TestCorrelatorFIFOBinding(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	// 先发点击（期望2个值），再发模拟量（期望1个值）
	c.Register(EventClick)
	c.Register(EventAnalog)
	bus.QueueReadInt(100)
	bus.QueueReadInt(200)
	bus.QueueReadInt(1024)

	// 第一轮每个待答请求拉取一个值：前两个绑定到点击请求
	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventClick, events[0].Kind)
	assert.Equal(t, []float64{100, 200}, events[0].Values)

	// 第二轮拉到第三个值，绑定到模拟量请求，绝不混配
	events, err = c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventAnalog, events[0].Kind)
	assert.Equal(t, 1024.0, events[0].Values[1])
	assert.Equal(t, 0, c.PendingCount())
}

// TestCorrelatorStrictFIFOStall 测试数据不足时停在最老的请求上
func TestCorrelatorStrictFIFOStall(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventClick)  // 期望2个值
	c.Register(EventAnalog) // 期望1个值
	bus.QueueReadInt(100)

	// 只有1个值：点击请求不满足，不得跳过它先满足模拟量请求
	events, err := c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, c.PendingCount())
}

// TestCorrelatorTimeout 测试超过2000ms的待答请求被丢弃
func TestCorrelatorTimeout(t *testing.T) {
	bus := NewMockBus()
	c, now := newTestCorrelator(bus)

	c.Register(EventAnalog)
	*now = 2001

	events, err := c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, c.PendingCount())

	// 迟到的数据不会复活已丢弃的请求
	bus.QueueReadInt(1000)
	events, err = c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
}

// TestCorrelatorTimeoutKeepsRawValues 测试超时丢弃不消费原始值
func TestCorrelatorTimeoutKeepsRawValues(t *testing.T) {
	bus := NewMockBus()
	c, now := newTestCorrelator(bus)

	c.Register(EventAnalog)
	*now = 2001
	c.Register(EventVoltage)
	bus.QueueReadInt(4800)
	bus.QueueReadInt(9999)

	// 第一个请求超时丢弃，其后的请求用到达顺序中最早的值
	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventVoltage, events[0].Kind)
	assert.Equal(t, []float64{4800}, events[0].Values)
}

// TestCorrelatorClickRejection 测试触摸哨兵读数丢弃整个事件
func TestCorrelatorClickRejection(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventClick)
	bus.QueueReadInt(1500)
	bus.QueueReadInt(42)

	events, err := c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
	// 第一轮只拉取一个值，第二轮补齐后整个事件被丢弃，
	// 配对的第二个值也一并消费
	events, err = c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, c.PendingCount())
}

// TestCorrelatorResync 测试待答队列清空后原始队列被清空
func TestCorrelatorResync(t *testing.T) {
	bus := NewMockBus()
	c, now := newTestCorrelator(bus)

	// 被放弃的请求留下残值
	c.Register(EventClick)
	bus.QueueReadInt(333)
	_, err := c.Poll()
	require.NoError(t, err)

	*now = 2001
	_, err = c.Poll()
	require.NoError(t, err)
	assert.Equal(t, 0, c.PendingCount())

	// 新请求不得吃到上一轮的残值
	c.Register(EventVoltage)
	bus.QueueReadInt(4800)
	events, err := c.Poll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []float64{4800}, events[0].Values)
}

// TestCorrelatorReadTimeoutNotAnError 测试读超时视为本轮无数据
func TestCorrelatorReadTimeoutNotAnError(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventAnalog)
	c.Register(EventVoltage)

	events, err := c.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, c.PendingCount())
}

// TestCorrelatorFatalReadError 测试其他总线错误向上传播
func TestCorrelatorFatalReadError(t *testing.T) {
	bus := NewMockBus()
	c, _ := newTestCorrelator(bus)

	c.Register(EventAnalog)
	bus.SetReadError(errors.New(errors.ErrBusRead, "bus fault"))

	_, err := c.Poll()
	require.Error(t, err)
	assert.Equal(t, errors.ErrBusRead, errors.GetCode(err))
}

// TestEventKindArity 测试事件类型的期望值个数
func TestEventKindArity(t *testing.T) {
	assert.Equal(t, 2, EventClick.Arity())
	assert.Equal(t, 1, EventAnalog.Arity())
	assert.Equal(t, 1, EventTemperature.Arity())
	assert.Equal(t, 1, EventVoltage.Arity())
}
