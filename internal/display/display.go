package display

import (
	"time"

	"github.com/wfunc/display-service/internal/errors"
)

// DefaultAddress Digole模块出厂I2C从机地址
const DefaultAddress = 0x27

// Config 显示屏控制器配置
type Config struct {
	Address    int           `yaml:"address"`
	ChunkSize  int           `yaml:"chunk_size"`
	DataDelay  time.Duration `yaml:"data_delay"`
	FlashDelay time.Duration `yaml:"flash_delay"`
	// 录制缓冲区字节上限，小于等于0不限制
	RecordingMaxSize int `yaml:"recording_max_size"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Address:          DefaultAddress,
		ChunkSize:        DefaultChunkSize,
		DataDelay:        DefaultDataDelay,
		FlashDelay:       DefaultFlashDelay,
		RecordingMaxSize: 65536,
	}
}

// Display 显示屏控制器
// 组合分段写入器、指令录制器和响应关联器，面向一块Digole串行
// 显示屏。内部不加锁（见Manager）：并发调用方必须自行串行化。
type Display struct {
	bus        Bus
	writer     *Writer
	recorder   *Recorder
	correlator *Correlator

	// 可注入的睡眠函数，和Writer共享
	sleep func(time.Duration)
	now   func() int64
}

// New 创建显示屏控制器
func New(bus Bus, config *Config) *Display {
	if config == nil {
		config = DefaultConfig()
	}

	recorder := NewRecorder(config.RecordingMaxSize)
	writer := NewWriter(bus, config.Address, recorder)
	if config.ChunkSize > 0 {
		writer.SetChunkSize(config.ChunkSize)
	}
	if config.DataDelay > 0 {
		writer.SetDataDelay(config.DataDelay)
	}
	if config.FlashDelay > 0 {
		writer.SetFlashDelay(config.FlashDelay)
	}

	return &Display{
		bus:        bus,
		writer:     writer,
		recorder:   recorder,
		correlator: NewCorrelator(bus, config.Address),
		sleep:      time.Sleep,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock 注入毫秒时钟（写入器暂停和关联器超时共用）
func (d *Display) SetClock(now func() int64) {
	d.now = now
	d.correlator.SetClock(now)
}

// SetSleep 注入睡眠函数
func (d *Display) SetSleep(sleep func(time.Duration)) {
	if sleep != nil {
		d.sleep = sleep
		d.writer.SetSleep(sleep)
	}
}

// SetTrace 注入调试追踪钩子，收到每个实际发出的分段
func (d *Display) SetTrace(trace TraceFunc) {
	d.writer.SetTrace(trace)
}

// send 编码并发送一条指令
func (d *Display) send(opcode string, args ...interface{}) error {
	return d.writer.Send(Encode(opcode, args...))
}

// sendAndRegister 发送读取类指令并登记待答请求
// 所有会触发设备上报数据的指令都经此发出，保证指令发出与
// 待答登记成对出现。
func (d *Display) sendAndRegister(opcode string, kind EventKind, args ...interface{}) error {
	if err := d.send(opcode, args...); err != nil {
		return err
	}
	d.correlator.Register(kind)
	return nil
}

// Poll 轮询设备上报事件，见Correlator.Poll
func (d *Display) Poll() ([]Event, error) {
	return d.correlator.Poll()
}

// PendingReads 当前待答读取请求数
func (d *Display) PendingReads() int {
	return d.correlator.PendingCount()
}

// WaitUntilReady 等待设备恢复响应
// 反复写入单个零字节直到写入成功。设备未就绪错误触发重试，
// 其余错误立即传播。timeout小于等于0表示无限等待，超时后
// 返回ErrTimeout。典型用途是深度休眠唤醒后的恢复等待。
func (d *Display) WaitUntilReady(timeout time.Duration) error {
	start := d.now()
	for {
		err := d.bus.Write(d.writer.addr, []byte{0})
		if err == nil {
			return nil
		}
		if errors.GetCode(err) != errors.ErrBusNotReady {
			return err
		}
		if timeout > 0 && d.now()-start > timeout.Milliseconds() {
			return errors.New(errors.ErrTimeout, "device not ready")
		}
		d.sleep(10 * time.Millisecond)
	}
}

// ExecuteScript 原样发送一段二进制指令流
// 与StartRecording/StopRecording配合使用：录制得到的指令流
// 可在之后重放，产生与原始会话一致的总线写入序列。
func (d *Display) ExecuteScript(instructions []byte) error {
	return d.writer.Send(instructions)
}

// IsRecording 是否正在录制
func (d *Display) IsRecording() bool {
	return d.recorder.IsRecording()
}

// StartRecording 开始录制输出，幂等
func (d *Display) StartRecording() {
	d.recorder.Start()
}

// RecordingSize 当前录制缓冲区字节数，空闲时为0
func (d *Display) RecordingSize() int {
	return d.recorder.Size()
}

// StopRecording 停止录制并返回捕获的指令流，空闲时返回nil
func (d *Display) StopRecording() []byte {
	return d.recorder.Stop()
}

// StopRecordingStream 停止录制并将缓冲区交给消费回调，返回字节数
func (d *Display) StopRecordingStream(consumer StreamConsumer) (int, error) {
	return d.recorder.StopStream(consumer)
}
