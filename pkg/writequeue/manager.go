// Package writequeue runs the operations of one key (a browser session) strictly one after another
// Package writequeue 按键（浏览器会话）串行执行操作
//
// Operations of different keys run concurrently; operations of the same key are
// processed in FIFO order by a lazily started worker that is stopped after it
// has been idle for Config.IdleTimeout.
// 不同键的操作并发执行；同一键的操作由懒启动的 worker 按 FIFO 顺序处理，空闲超时后停止。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 操作超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 队列配置
type Config struct {
	// QueueCapacity 每个键的队列容量，默认 32
	QueueCapacity int
	// Timeout 单个操作的等待上限，默认 30 秒
	Timeout time.Duration
	// IdleTimeout 空闲清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 32,
		Timeout:       30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type op struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type keyQueue struct {
	key      string
	ch       chan op
	lastUsed atomic.Int64
	closed   atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	workerWg sync.WaitGroup
}

func (q *keyQueue) stop() {
	q.closed.Store(true)
	q.stopOnce.Do(func() { close(q.stopCh) })
}

// Manager 管理所有键的队列
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[string]*keyQueue

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New 创建队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.Timeout > 0 {
			c.Timeout = cfg.Timeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:      c,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	return m
}

// Execute runs fn on the queue of key and waits for its result
// Execute 在 key 的队列上执行 fn 并等待结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	m.mu.RUnlock()

	queue := m.getOrCreateQueue(key)
	if queue == nil {
		return ErrWriteQueueClosed
	}

	result := make(chan error, 1)
	select {
	case queue.ch <- op{ctx: ctx, fn: fn, result: result}:
	default:
		return ErrWriteQueueFull
	}

	timeout := m.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

func (m *Manager) getOrCreateQueue(key string) *keyQueue {
	if v, ok := m.queues.Load(key); ok {
		queue := v.(*keyQueue)
		if !queue.closed.Load() {
			queue.lastUsed.Store(time.Now().UnixNano())
			return queue
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil
	}

	queue := &keyQueue{
		key:    key,
		ch:     make(chan op, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	queue.lastUsed.Store(time.Now().UnixNano())

	actual, loaded := m.queues.LoadOrStore(key, queue)
	if loaded {
		existing := actual.(*keyQueue)
		if !existing.closed.Load() {
			existing.lastUsed.Store(time.Now().UnixNano())
			return existing
		}
		m.queues.Store(key, queue)
	}

	queue.workerWg.Add(1)
	go m.worker(queue)

	m.logger.Debug("write queue created", zap.String("key", key))
	return queue
}

func (m *Manager) worker(queue *keyQueue) {
	defer queue.workerWg.Done()
	defer queue.closed.Store(true)

	for {
		select {
		case <-m.ctx.Done():
			m.drain(queue)
			return
		case <-queue.stopCh:
			m.drain(queue)
			return
		case o := <-queue.ch:
			m.run(queue, o)
		}
	}
}

func (m *Manager) run(queue *keyQueue, o op) {
	queue.lastUsed.Store(time.Now().UnixNano())

	select {
	case <-o.ctx.Done():
		o.result <- o.ctx.Err()
		return
	default:
	}

	o.result <- o.fn()
}

func (m *Manager) drain(queue *keyQueue) {
	for {
		select {
		case o := <-queue.ch:
			m.run(queue, o)
		default:
			return
		}
	}
}

func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup()
		}
	}
}

func (m *Manager) doCleanup() {
	now := time.Now().UnixNano()
	idle := m.config.IdleTimeout.Nanoseconds()

	m.queues.Range(func(key, value interface{}) bool {
		queue := value.(*keyQueue)
		if now-queue.lastUsed.Load() > idle && len(queue.ch) == 0 && !queue.closed.Load() {
			queue.stop()
			m.queues.Delete(key)
		}
		return true
	})
}

// Forget stops the queue of key, used when a session is destroyed
// Forget 停止 key 的队列，会话销毁时调用
func (m *Manager) Forget(key string) {
	if v, ok := m.queues.LoadAndDelete(key); ok {
		v.(*keyQueue).stop()
	}
}

// Shutdown 关闭管理器并等待所有操作完成，ctx 控制超时
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		m.queues.Range(func(_, value interface{}) bool {
			value.(*keyQueue).stop()
			return true
		})
		m.queues.Range(func(_, value interface{}) bool {
			value.(*keyQueue).workerWg.Wait()
			return true
		})
		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.cancel()
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// QueueCount 返回活跃队列数量
func (m *Manager) QueueCount() int {
	count := 0
	m.queues.Range(func(_, value interface{}) bool {
		if !value.(*keyQueue).closed.Load() {
			count++
		}
		return true
	})
	return count
}
