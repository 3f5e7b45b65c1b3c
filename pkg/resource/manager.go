// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

// ErrGoroutineLimit is returned by Go when the tracked goroutine budget is spent
var ErrGoroutineLimit = errors.New("goroutine limit reached")

// Manager bounds the goroutines the server starts for game sessions and
// samples process memory for the health endpoint.
type Manager struct {
	maxMemoryMB     int64
	maxGoroutines   int64
	shutdownTimeout time.Duration
	checkInterval   time.Duration

	goroutines  atomic.Int64
	memoryMB    atomic.Int64
	lastSampled atomic.Int64
	wg          sync.WaitGroup

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger
}

// Stats is a point-in-time view of tracked resources
type Stats struct {
	Goroutines    int64     `json:"goroutines"`
	MaxGoroutines int64     `json:"max_goroutines"`
	MemoryMB      int64     `json:"memory_mb"`
	MaxMemoryMB   int64     `json:"max_memory_mb"`
	LastSampled   time.Time `json:"last_sampled"`
}

// NewManager creates a manager with limits from the environment config
func NewManager(env *config.EnvironmentConfig, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		maxMemoryMB:     int64(env.MaxMemoryMB),
		maxGoroutines:   int64(env.MaxGoroutines),
		shutdownTimeout: env.ShutdownTimeout,
		checkInterval:   env.ResourceCheckInterval,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logger.WithComponent("resource"),
	}
}

// Start begins periodic memory sampling
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return fmt.Errorf("resource manager already running")
	}
	m.running = true

	go m.monitor()

	m.logger.Info(m.ctx, "resource manager started",
		"max_memory_mb", m.maxMemoryMB,
		"max_goroutines", m.maxGoroutines,
		"check_interval", m.checkInterval,
	)
	return nil
}

// Go runs fn on a tracked goroutine. A panic in fn is logged and swallowed
// so one broken session cannot take the server down.
func (m *Manager) Go(ctx context.Context, name string, fn func(context.Context)) error {
	if n := m.goroutines.Add(1); n > m.maxGoroutines {
		m.goroutines.Add(-1)
		m.logger.Warn(ctx, "goroutine limit reached", "name", name, "limit", m.maxGoroutines)
		return fmt.Errorf("%w: %d", ErrGoroutineLimit, m.maxGoroutines)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.goroutines.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error(ctx, "goroutine panic", fmt.Errorf("panic: %v", r), "name", name)
			}
		}()

		fn(ctx)
	}()
	return nil
}

// SampleMemory reads the heap size, records it and returns it in MB
func (m *Manager) SampleMemory() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	current := int64(stats.Alloc / 1024 / 1024)
	m.memoryMB.Store(current)
	m.lastSampled.Store(time.Now().UnixNano())
	return current
}

// CheckMemory samples memory and reports an error above the limit
func (m *Manager) CheckMemory() error {
	if current := m.SampleMemory(); current > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.maxMemoryMB)
	}
	return nil
}

// Goroutines returns the number of tracked goroutines still running
func (m *Manager) Goroutines() int64 {
	return m.goroutines.Load()
}

// Stats returns the current counters
func (m *Manager) Stats() Stats {
	var sampled time.Time
	if nanos := m.lastSampled.Load(); nanos != 0 {
		sampled = time.Unix(0, nanos)
	}
	return Stats{
		Goroutines:    m.Goroutines(),
		MaxGoroutines: m.maxGoroutines,
		MemoryMB:      m.memoryMB.Load(),
		MaxMemoryMB:   m.maxMemoryMB,
		LastSampled:   sampled,
	}
}

// Shutdown stops sampling and waits for tracked goroutines, up to the
// configured shutdown timeout. Callers cancel the goroutines' contexts first.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	wasRunning := m.running
	m.running = false
	m.mu.Unlock()

	m.cancel()
	if wasRunning {
		<-m.done
	}

	ctx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		remaining := m.Goroutines()
		m.logger.Warn(ctx, "shutdown timed out with goroutines running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
	}
}

func (m *Manager) monitor() {
	defer close(m.done)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.CheckMemory(); err != nil {
				m.logger.Error(m.ctx, "memory limit exceeded", err)
			}
			m.logger.Debug(m.ctx, "resource usage",
				"goroutines", m.Goroutines(),
				"memory_mb", m.memoryMB.Load(),
			)
		case <-m.ctx.Done():
			return
		}
	}
}
