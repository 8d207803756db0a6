package display

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/display-service/internal/errors"
)

// TestRecorderLifecycle 测试录制会话的状态机
func TestRecorderLifecycle(t *testing.T) {
	rec := NewRecorder(0)

	assert.False(t, rec.IsRecording())
	assert.Equal(t, 0, rec.Size())

	rec.Start()
	assert.True(t, rec.IsRecording())
	require.NoError(t, rec.Append([]byte("abc")))
	assert.Equal(t, 3, rec.Size())

	data := rec.Stop()
	assert.Equal(t, []byte("abc"), data)
	assert.False(t, rec.IsRecording())
	assert.Equal(t, 0, rec.Size())
}

// TestRecorderStartIdempotent 测试重复Start不重置进行中的缓冲区
func TestRecorderStartIdempotent(t *testing.T) {
	rec := NewRecorder(0)

	rec.Start()
	require.NoError(t, rec.Append([]byte("abc")))
	rec.Start()
	assert.Equal(t, 3, rec.Size())

	require.NoError(t, rec.Append([]byte("de")))
	assert.Equal(t, []byte("abcde"), rec.Stop())
}

// TestRecorderStopWhileIdle 测试空闲时Stop返回空结果且无错误
func TestRecorderStopWhileIdle(t *testing.T) {
	rec := NewRecorder(0)

	assert.Nil(t, rec.Stop())

	size, err := rec.StopStream(func(r io.Reader) error {
		t.Fatal("consumer should not be called while idle")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

// TestRecorderAppendWhileIdle 测试空闲时Append为空操作
func TestRecorderAppendWhileIdle(t *testing.T) {
	rec := NewRecorder(0)
	require.NoError(t, rec.Append([]byte("abc")))
	assert.Equal(t, 0, rec.Size())
}

// TestRecorderStopStream 测试流式交接从缓冲区起始处读取
func TestRecorderStopStream(t *testing.T) {
	rec := NewRecorder(0)
	rec.Start()
	require.NoError(t, rec.Append([]byte("hello")))

	var got []byte
	size, err := rec.StopStream(func(r io.Reader) error {
		var readErr error
		got, readErr = io.ReadAll(r)
		return readErr
	})
	require.NoError(t, err)
	assert.Equal(t, 5, size)
	assert.Equal(t, []byte("hello"), got)
	assert.False(t, rec.IsRecording())
}

// TestRecorderStopStreamConsumerError 测试消费回调出错时缓冲区仍被释放
func TestRecorderStopStreamConsumerError(t *testing.T) {
	rec := NewRecorder(0)
	rec.Start()
	require.NoError(t, rec.Append([]byte("hello")))

	_, err := rec.StopStream(func(r io.Reader) error {
		return fmt.Errorf("consumer failed")
	})
	require.Error(t, err)

	// 回调的错误向上传播，但会话必须回到空闲态
	assert.False(t, rec.IsRecording())
	assert.Equal(t, 0, rec.Size())
}

// TestRecorderSizeLimit 测试缓冲区上限
func TestRecorderSizeLimit(t *testing.T) {
	rec := NewRecorder(4)
	rec.Start()

	require.NoError(t, rec.Append([]byte("abc")))
	err := rec.Append([]byte("de"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrRecordingLimit, errors.GetCode(err))

	// 超限的片段不写入，已有内容保留
	assert.Equal(t, []byte("abc"), rec.Stop())
}
