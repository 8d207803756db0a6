package display

import (
	"encoding/binary"
	"time"
)

const (
	// DefaultChunkSize 单段最大字节数，超长序列按此切分
	DefaultChunkSize = 64
	// DefaultDataDelay 常规分段间隔
	DefaultDataDelay = 5 * time.Millisecond
	// DefaultFlashDelay 闪存写入期间的分段间隔
	DefaultFlashDelay = 40 * time.Millisecond
	// flashSettleDelay 长度前缀发出后设备准备闪存写入所需的等待
	flashSettleDelay = 200 * time.Millisecond
	// flashEndMarker 成批传输的结束标志字节
	flashEndMarker = 0xFF
)

// TraceFunc 调试追踪钩子，收到每个实际发出的分段
type TraceFunc func(segment []byte)

// Writer 分段写入器
// 将任意长度的字节序列切成不超过chunkSize的分段逐段发往总线，
// 段间插入dataDelay的暂停以迁就设备的接收缓冲。延迟是发起写入的
// 协程上的阻塞式暂停，写入器内部没有并发调度。
type Writer struct {
	bus  Bus
	addr int

	chunkSize  int
	dataDelay  time.Duration
	flashDelay time.Duration

	// 可注入的睡眠函数，测试中替换为空操作
	sleep func(time.Duration)

	recorder *Recorder
	trace    TraceFunc
}

// NewWriter 创建分段写入器
func NewWriter(bus Bus, addr int, recorder *Recorder) *Writer {
	return &Writer{
		bus:        bus,
		addr:       addr,
		chunkSize:  DefaultChunkSize,
		dataDelay:  DefaultDataDelay,
		flashDelay: DefaultFlashDelay,
		sleep:      time.Sleep,
		recorder:   recorder,
	}
}

// SetChunkSize 设置单段最大字节数
func (w *Writer) SetChunkSize(n int) {
	if n > 0 {
		w.chunkSize = n
	}
}

// SetDataDelay 设置常规分段间隔
func (w *Writer) SetDataDelay(d time.Duration) {
	w.dataDelay = d
}

// SetFlashDelay 设置闪存写入时的分段间隔
func (w *Writer) SetFlashDelay(d time.Duration) {
	w.flashDelay = d
}

// SetSleep 注入睡眠函数
func (w *Writer) SetSleep(sleep func(time.Duration)) {
	if sleep != nil {
		w.sleep = sleep
	}
}

// SetTrace 注入调试追踪钩子
func (w *Writer) SetTrace(trace TraceFunc) {
	w.trace = trace
}

// Send 发送完整字节序列
// 超过chunkSize的序列被切分为多段，每段发出后暂停dataDelay。
// 切分只按长度，不感知内容。总线错误原样向上传播，此层不重试。
// 录制会话激活时，切分前的完整序列追加一次到录制缓冲区。
func (w *Writer) Send(data []byte) error {
	if len(data) <= w.chunkSize {
		if err := w.writeSegment(data); err != nil {
			return err
		}
	} else {
		for i := 0; i < len(data); i += w.chunkSize {
			end := i + w.chunkSize
			if end > len(data) {
				end = len(data)
			}
			if err := w.writeSegment(data[i:end]); err != nil {
				return err
			}
			w.sleep(w.dataDelay)
		}
	}

	if w.recorder != nil && w.recorder.IsRecording() {
		return w.recorder.Append(data)
	}
	return nil
}

// writeSegment 发出单个分段
func (w *Writer) writeSegment(segment []byte) error {
	if err := w.bus.Write(w.addr, segment); err != nil {
		return err
	}
	if w.trace != nil {
		w.trace(segment)
	}
	return nil
}

// SendPaced 成批慢速传输
// 用于写入设备持久存储（字库、开机画面）的指令：这类写入对传输
// 节奏敏感。先发2字节大端长度前缀，等待设备准备就绪，随后在加宽
// 的分段间隔下走常规分段路径发送数据，最后发结束标志字节并留出
// 收尾等待。无论成败，原分段间隔都会恢复。
func (w *Writer) SendPaced(payload []byte) error {
	stdDelay := w.dataDelay
	w.dataDelay = w.flashDelay
	defer func() {
		w.dataDelay = stdDelay
	}()

	prefix := make([]byte, 2)
	binary.BigEndian.PutUint16(prefix, uint16(len(payload)))
	if err := w.Send(prefix); err != nil {
		return err
	}
	w.sleep(flashSettleDelay)

	if err := w.Send(payload); err != nil {
		return err
	}

	if err := w.Send([]byte{flashEndMarker}); err != nil {
		return err
	}
	w.sleep(w.flashDelay)
	return nil
}
