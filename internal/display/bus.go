package display

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
	"github.com/wfunc/display-service/internal/errors"
	"github.com/wfunc/display-service/internal/logger"
	"go.uber.org/zap"
)

// Bus 总线传输接口
// 由调用方注入，屏蔽I2C/UART差异。读写错误使用errors包的错误码区分：
// ErrBusNotReady表示设备未就绪（可重试），ErrBusTimeout表示暂无数据，
// 其余错误一律视为致命错误向上传播。
type Bus interface {
	// Write 向指定从机地址写入一段字节
	Write(addr int, data []byte) error
	// Read 从指定从机地址读取n个字节
	Read(addr int, n int) ([]byte, error)
}

// SerialBus 串口总线适配器
// UART模式下从机地址无意义，Write/Read忽略addr参数。
type SerialBus struct {
	config *SerialBusConfig
	port   *serial.Port
	mu     sync.Mutex
	logger *zap.Logger
}

// SerialBusConfig 串口总线配置
type SerialBusConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// NewSerialBus 创建串口总线适配器
func NewSerialBus(config *SerialBusConfig) *SerialBus {
	return &SerialBus{
		config: config,
		logger: logger.GetModuleLogger("bus"),
	}
}

// Open 打开串口
func (s *SerialBus) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port != nil {
		return nil
	}

	cfg := &serial.Config{
		Name:        s.config.Port,
		Baud:        s.config.BaudRate,
		ReadTimeout: s.config.ReadTimeout,
	}

	port, err := serial.OpenPort(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrBusOpen, s.config.Port)
	}

	s.port = port
	s.logger.Info("串口已打开",
		zap.String("port", s.config.Port),
		zap.Int("baud", s.config.BaudRate))
	return nil
}

// Close 关闭串口
func (s *SerialBus) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}

	err := s.port.Close()
	s.port = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrBusOpen, "close")
	}
	return nil
}

// Write 写入数据
func (s *SerialBus) Write(addr int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return errors.New(errors.ErrBusNotReady, "port not open")
	}

	if _, err := s.port.Write(data); err != nil {
		if isNotReadyErr(err) {
			return errors.Wrap(err, errors.ErrBusNotReady)
		}
		return errors.Wrap(err, errors.ErrBusWrite)
	}
	return nil
}

// Read 读取n个字节
// 串口读超时返回ErrBusTimeout，轮询方将其视为"本轮无数据"。
func (s *SerialBus) Read(addr int, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil, errors.New(errors.ErrBusNotReady, "port not open")
	}

	buf := make([]byte, n)
	got := 0
	for got < n {
		c, err := s.port.Read(buf[got:])
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.ErrBusRead)
		}
		if c == 0 {
			// 超时窗口内未到数据
			return nil, errors.New(errors.ErrBusTimeout)
		}
		got += c
	}
	return buf, nil
}

// isNotReadyErr 判断底层错误是否为设备未就绪
// 设备深度休眠时内核返回ENODEV/EREMOTEIO一类错误。
func isNotReadyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "device not configured") ||
		strings.Contains(msg, "input/output error")
}
