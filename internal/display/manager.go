package display

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/display-service/internal/config"
	"github.com/wfunc/display-service/internal/errors"
	"github.com/wfunc/display-service/internal/logger"
	"go.uber.org/zap"
)

// EventHandler 上报事件处理器
type EventHandler func(event Event)

// busOpener 需要显式打开/关闭的总线实现
type busOpener interface {
	Open() error
	Close() error
}

// Stats 运行统计
type Stats struct {
	mu sync.RWMutex

	CommandsSent  uint64    `json:"commands_sent"`
	EventsEmitted uint64    `json:"events_emitted"`
	PollErrors    uint64    `json:"poll_errors"`
	StartTime     time.Time `json:"start_time"`
	LastEventTime time.Time `json:"last_event_time"`
}

// snapshot 返回统计副本
func (s *Stats) snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		CommandsSent:  s.CommandsSent,
		EventsEmitted: s.EventsEmitted,
		PollErrors:    s.PollErrors,
		StartTime:     s.StartTime,
		LastEventTime: s.LastEventTime,
	}
}

// Manager 显示屏管理器
// 持有Display并负责连接生命周期、周期性事件轮询和事件分发。
// Display自身不加锁，所有访问（包括轮询协程）都经Manager的互斥锁
// 串行化，这是并发调用方使用控制器的唯一入口。
type Manager struct {
	mu     sync.Mutex
	logger *zap.Logger

	config  *config.DisplayConfig
	bus     Bus
	display *Display

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	handlers []EventHandler
	stats    *Stats
}

// NewManager 创建显示屏管理器
func NewManager(cfg *config.DisplayConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		logger: logger.GetModuleLogger("display"),
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		stats:  &Stats{},
	}
}

// Initialize 初始化：创建总线和控制器
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.display != nil {
		return nil
	}

	if m.config.MockMode {
		m.logger.Info("使用模拟总线")
		m.bus = NewMockBus()
	} else {
		m.bus = NewSerialBus(&SerialBusConfig{
			Port:        m.config.Port,
			BaudRate:    m.config.BaudRate,
			ReadTimeout: m.config.ReadTimeout,
		})
	}

	m.display = New(m.bus, &Config{
		Address:          m.config.Address,
		ChunkSize:        m.config.ChunkSize,
		DataDelay:        m.config.DataDelay,
		FlashDelay:       m.config.FlashDelay,
		RecordingMaxSize: m.config.Recording.MaxSize,
	})

	m.logger.Info("显示屏管理器初始化完成",
		zap.String("port", m.config.Port),
		zap.Int("baud", m.config.BaudRate),
		zap.Int("address", m.config.Address),
		zap.Bool("mockMode", m.config.MockMode))
	return nil
}

// Start 连接设备并启动轮询
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	if m.display == nil {
		return errors.New(errors.ErrBusNotReady, "manager not initialized")
	}

	if opener, ok := m.bus.(busOpener); ok {
		if err := opener.Open(); err != nil {
			return err
		}
	}

	// 设备可能刚上电或在休眠中，等其恢复响应
	if err := m.display.WaitUntilReady(m.config.ReadyTimeout); err != nil {
		return errors.Wrap(err, errors.ErrDeviceOffline)
	}

	m.running = true
	m.stats.mu.Lock()
	m.stats.StartTime = time.Now()
	m.stats.mu.Unlock()

	m.wg.Add(1)
	go m.pollLoop()

	m.logger.Info("显示屏管理器已启动",
		zap.Duration("pollInterval", m.config.PollInterval))
	return nil
}

// Stop 停止轮询并断开设备
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()

	var err error
	if opener, ok := m.bus.(busOpener); ok {
		err = opener.Close()
	}

	m.logger.Info("显示屏管理器已停止")
	return err
}

// IsRunning 是否在运行
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// OnEvent 注册上报事件处理器
func (m *Manager) OnEvent(handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Execute 串行化执行一段针对Display的操作
// API层发起的所有指令都走这里，与轮询协程互斥。
func (m *Manager) Execute(fn func(d *Display) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.display == nil {
		return errors.New(errors.ErrBusNotReady, "manager not initialized")
	}

	err := fn(m.display)
	if err == nil {
		m.stats.mu.Lock()
		m.stats.CommandsSent++
		m.stats.mu.Unlock()
	}
	return err
}

// GetStats 返回运行统计快照
func (m *Manager) GetStats() Stats {
	return m.stats.snapshot()
}

// pollLoop 周期性轮询设备上报事件
func (m *Manager) pollLoop() {
	defer m.wg.Done()

	interval := m.config.PollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce()
		}
	}
}

// pollOnce 执行一次轮询并分发事件
func (m *Manager) pollOnce() {
	m.mu.Lock()
	if !m.running || m.display.PendingReads() == 0 {
		m.mu.Unlock()
		return
	}

	events, err := m.display.Poll()
	handlers := m.handlers
	m.mu.Unlock()

	if err != nil {
		m.stats.mu.Lock()
		m.stats.PollErrors++
		m.stats.mu.Unlock()
		m.logger.Error("事件轮询失败", zap.Error(err))
		return
	}

	for _, event := range events {
		m.stats.mu.Lock()
		m.stats.EventsEmitted++
		m.stats.LastEventTime = time.Now()
		m.stats.mu.Unlock()

		logger.LogDeviceEvent(event.Kind.String(), event.Values)
		for _, handler := range handlers {
			handler(event)
		}
	}
}
