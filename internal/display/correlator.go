package display

import (
	"encoding/binary"
	"time"

	"github.com/wfunc/display-service/internal/errors"
)

// EventKind 设备上报事件类型
type EventKind int

const (
	// EventClick 触摸/点击坐标事件（两个原始值：x, y）
	EventClick EventKind = 1
	// EventAnalog 模拟量读数事件
	EventAnalog EventKind = 2
	// EventTemperature 芯片温度读数事件
	EventTemperature EventKind = 3
	// EventVoltage 电压读数事件（毫伏）
	EventVoltage EventKind = 4
)

// String 事件类型名称
func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventAnalog:
		return "analog"
	case EventTemperature:
		return "temperature"
	case EventVoltage:
		return "voltage"
	default:
		return "unknown"
	}
}

// Arity 每种事件期望的原始值个数
func (k EventKind) Arity() int {
	if k == EventClick {
		return 2
	}
	return 1
}

const (
	// pendingTimeout 待答请求的硬超时窗口
	pendingTimeout = 2000 // ms
	// clickRejectThreshold 触摸坐标的"未按压"哨兵阈值
	clickRejectThreshold = 1000
	// analogFullScale 模拟量满量程电压
	analogFullScale = 2.5
	// adcRange ADC量化范围
	adcRange = 4096
)

// Event 已关联的上报事件
// Values的首元素为换算后的读数（模拟量/温度），其后跟原始值；
// 点击事件为两个原始坐标，电压事件为原始毫伏值。
type Event struct {
	Kind   EventKind `json:"kind"`
	Values []float64 `json:"values"`
}

// pendingRead 待答读取请求
type pendingRead struct {
	kind     EventKind
	arity    int
	issuedAt int64 // ms
}

// Correlator 响应关联器
// 维护两个FIFO：待答请求队列和已到达但未消费的原始双字节整数队列。
// 设备的应答可能滞后、缺失或成批到达，关联器在每次轮询中按到达
// 顺序严格对齐两个队列。自身不加锁，由调用方串行化访问。
type Correlator struct {
	bus  Bus
	addr int

	// 单调毫秒时钟，测试中注入假时钟
	now func() int64

	pending []pendingRead
	raw     []int
}

// NewCorrelator 创建响应关联器
func NewCorrelator(bus Bus, addr int) *Correlator {
	return &Correlator{
		bus:  bus,
		addr: addr,
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock 注入毫秒时钟
func (c *Correlator) SetClock(now func() int64) {
	if now != nil {
		c.now = now
	}
}

// Register 登记一个待答读取请求
// 在对应的读取指令发出后调用，记录事件类型与发出时刻。
func (c *Correlator) Register(kind EventKind) {
	c.pending = append(c.pending, pendingRead{
		kind:     kind,
		arity:    kind.Arity(),
		issuedAt: c.now(),
	})
}

// PendingCount 当前待答请求数
func (c *Correlator) PendingCount() int {
	return len(c.pending)
}

// Poll 轮询一次，返回本轮关联成功的事件列表
//
// 每轮依次做三件事：
//  1. 按待答请求数尝试从总线各拉取一个大端双字节整数入原始队列，
//     读超时（本轮无数据）提前结束拉取，不算错误；其余总线错误传播。
//  2. 从最老的待答请求起遍历：超过2000ms的请求直接丢弃（不消费
//     原始值）；原始队列不足该请求的期望个数时停止遍历（严格FIFO，
//     不跳到后面已可满足的请求）；否则按到达顺序弹出期望个数的
//     原始值并应用该事件类型的换算。
//  3. 待答队列清空时无条件清空原始队列，防止上一轮被放弃的请求
//     残留的数值串入之后不相关的请求。
//
// 对总线而言Poll是非阻塞的，适合由外部定时任务反复调用。
func (c *Correlator) Poll() ([]Event, error) {
	for range c.pending {
		data, err := c.bus.Read(c.addr, 2)
		if err != nil {
			if errors.GetCode(err) == errors.ErrBusTimeout {
				break
			}
			return nil, err
		}
		if len(data) < 2 {
			return nil, errors.Newf(errors.ErrInvalidResponse, "short read: %d bytes", len(data))
		}
		c.raw = append(c.raw, int(binary.BigEndian.Uint16(data)))
	}

	var events []Event
	for len(c.pending) > 0 {
		p := c.pending[0]

		if c.now()-p.issuedAt > pendingTimeout {
			c.pending = c.pending[1:]
			continue
		}

		if len(c.raw) < p.arity {
			break
		}

		args := make([]int, p.arity)
		copy(args, c.raw[:p.arity])
		c.raw = c.raw[p.arity:]
		c.pending = c.pending[1:]

		event, ok := transform(p.kind, args)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	if len(c.pending) == 0 {
		c.raw = nil
	}

	return events, nil
}

// transform 按事件类型换算原始值
// 返回ok=false表示整个事件被丢弃。
func transform(kind EventKind, args []int) (Event, bool) {
	values := make([]float64, 0, len(args)+1)

	switch kind {
	case EventClick:
		// 坐标超过阈值视为"未按压"哨兵读数，整个事件丢弃
		if args[0] > clickRejectThreshold {
			return Event{}, false
		}
	case EventAnalog:
		// V = d * 2.5 / 4096
		values = append(values, float64(args[0])*analogFullScale/adcRange)
	case EventTemperature:
		// T = (653 - d*2500/4096) / 2.1
		values = append(values, (653-float64(args[0])*2500/adcRange)/2.1)
	case EventVoltage:
		// 原始值即毫伏，直接透传
	}

	for _, a := range args {
		values = append(values, float64(a))
	}
	return Event{Kind: kind, Values: values}, true
}
