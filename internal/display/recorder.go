package display

import (
	"bytes"
	"io"

	"github.com/wfunc/display-service/internal/errors"
)

// StreamConsumer 录制流消费回调
// 在缓冲区释放前被调用，r定位于缓冲区起始处。回调返回的错误
// 向上传播，但缓冲区在任何情况下都会被释放。
type StreamConsumer func(r io.Reader) error

// Recorder 指令录制器
// 状态机：空闲 → Start → 录制中 → Stop/StopStream → 空闲。
// 录制期间所有经分段写入器发出的指令字节按序追加到缓冲区。
// 同一时刻至多一个录制会话，录制器自身不加锁，由调用方串行化访问。
type Recorder struct {
	buf     *bytes.Buffer
	maxSize int
}

// NewRecorder 创建录制器
// maxSize为缓冲区字节上限，小于等于0表示不限制。
func NewRecorder(maxSize int) *Recorder {
	return &Recorder{maxSize: maxSize}
}

// IsRecording 是否正在录制
func (r *Recorder) IsRecording() bool {
	return r.buf != nil
}

// Start 开始录制
// 已在录制中时为幂等空操作，不会重置已有缓冲区。
func (r *Recorder) Start() {
	if r.buf == nil {
		r.buf = &bytes.Buffer{}
	}
}

// Size 返回当前缓冲区字节数，空闲时恒为0，不改变状态
func (r *Recorder) Size() int {
	if r.buf == nil {
		return 0
	}
	return r.buf.Len()
}

// Append 追加一段已发出的指令字节
// 超出缓冲区上限时返回ErrRecordingLimit，本段不写入。
func (r *Recorder) Append(data []byte) error {
	if r.buf == nil {
		return nil
	}
	if r.maxSize > 0 && r.buf.Len()+len(data) > r.maxSize {
		return errors.Newf(errors.ErrRecordingLimit, "recording buffer limit %d exceeded", r.maxSize)
	}
	r.buf.Write(data)
	return nil
}

// Stop 停止录制并返回捕获的全部字节
// 空闲时返回nil。缓冲区随即释放，会话回到空闲态。
func (r *Recorder) Stop() []byte {
	if r.buf == nil {
		return nil
	}
	data := r.buf.Bytes()
	out := make([]byte, len(data))
	copy(out, data)
	r.buf = nil
	return out
}

// StopStream 停止录制并将缓冲区以流方式交给消费回调
// 返回捕获的字节数。无论回调是否出错，缓冲区都会被释放，
// 会话回到空闲态。空闲时返回(0, nil)，回调不被调用。
func (r *Recorder) StopStream(consumer StreamConsumer) (int, error) {
	if r.buf == nil {
		return 0, nil
	}

	size := r.buf.Len()
	buf := r.buf
	defer func() {
		r.buf = nil
	}()

	if consumer != nil {
		if err := consumer(bytes.NewReader(buf.Bytes())); err != nil {
			return size, err
		}
	}
	return size, nil
}
