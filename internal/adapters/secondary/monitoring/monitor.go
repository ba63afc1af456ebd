package monitoring

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

const (
	// DefaultSampleInterval is how often runtime figures are refreshed
	DefaultSampleInterval = 30 * time.Second

	maxHealthyMemory     = int64(500 * 1024 * 1024)
	maxHealthyGoroutines = 1000
)

// Stats is a copy of what the monitor has seen
type Stats struct {
	StartedAt time.Time
	SampledAt time.Time

	// runtime
	MemoryUsage    int64
	HeapSize       int64
	GoroutineCount int
	GCCount        uint32

	// activity
	HTTPRequests      int64
	PageRenders       int64
	AverageRenderTime time.Duration
	SessionsOpened    int64
	ActiveSessions    int64
	Gestures          map[string]int64
	Reloads           int64
}

// Monitor counts server activity and samples runtime memory figures
type Monitor struct {
	clock    ports.TimeProvider
	interval time.Duration

	mu    sync.RWMutex
	stats Stats

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewMonitor creates a monitor sampling every interval
func NewMonitor(clock ports.TimeProvider, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Monitor{
		clock:    clock,
		interval: interval,
		stats: Stats{
			StartedAt: clock.Now(),
			Gestures:  make(map[string]int64),
		},
	}
}

// Start samples once and then every interval until Stop or ctx ends
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})

	m.sample()
	ticker := m.clock.NewTicker(m.interval)
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C():
				m.sample()
			}
		}
	}(m.stopCh, m.done)
}

// Stop ends sampling and waits for the loop to exit
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	<-m.done
}

func (m *Monitor) sample() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.MemoryUsage = clampInt64(mem.Alloc)
	m.stats.HeapSize = clampInt64(mem.HeapAlloc)
	m.stats.GoroutineCount = runtime.NumGoroutine()
	m.stats.GCCount = mem.NumGC
	m.stats.SampledAt = m.clock.Now()
}

// RecordHTTPRequest counts one request
func (m *Monitor) RecordHTTPRequest() {
	m.mu.Lock()
	m.stats.HTTPRequests++
	m.mu.Unlock()
}

// RecordPageRender counts a page render and folds its duration into an
// exponential moving average
func (m *Monitor) RecordPageRender(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.PageRenders++
	if m.stats.AverageRenderTime == 0 {
		m.stats.AverageRenderTime = duration
		return
	}
	const alpha = 0.1
	m.stats.AverageRenderTime = time.Duration(
		float64(m.stats.AverageRenderTime)*(1-alpha) + float64(duration)*alpha,
	)
}

func (m *Monitor) SessionOpened() {
	m.mu.Lock()
	m.stats.SessionsOpened++
	m.stats.ActiveSessions++
	m.mu.Unlock()
}

func (m *Monitor) SessionClosed() {
	m.mu.Lock()
	if m.stats.ActiveSessions > 0 {
		m.stats.ActiveSessions--
	}
	m.mu.Unlock()
}

// RecordGesture counts an applied gesture by message type
func (m *Monitor) RecordGesture(kind string) {
	m.mu.Lock()
	m.stats.Gestures[kind]++
	m.mu.Unlock()
}

func (m *Monitor) RecordReload() {
	m.mu.Lock()
	m.stats.Reloads++
	m.mu.Unlock()
}

// Stats returns a copy of the current figures
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := m.stats
	stats.Gestures = make(map[string]int64, len(m.stats.Gestures))
	for k, v := range m.stats.Gestures {
		stats.Gestures[k] = v
	}
	return stats
}

// Uptime returns the time since the monitor was created
func (m *Monitor) Uptime() time.Duration {
	return m.clock.Since(m.Stats().StartedAt)
}

// IsHealthy reports whether the last sample is within memory and goroutine limits
func (m *Monitor) IsHealthy() bool {
	stats := m.Stats()
	return stats.MemoryUsage < maxHealthyMemory && stats.GoroutineCount < maxHealthyGoroutines
}

// HealthStatus is the body of the health endpoint
func (m *Monitor) HealthStatus() map[string]interface{} {
	stats := m.Stats()

	return map[string]interface{}{
		"healthy":    m.IsHealthy(),
		"uptime":     m.Uptime().Round(time.Second).String(),
		"memory_mb":  stats.MemoryUsage / (1024 * 1024),
		"heap_mb":    stats.HeapSize / (1024 * 1024),
		"goroutines": stats.GoroutineCount,
		"gc_cycles":  stats.GCCount,
		"activity": map[string]interface{}{
			"http_requests":   stats.HTTPRequests,
			"page_renders":    stats.PageRenders,
			"sessions_opened": stats.SessionsOpened,
			"active_sessions": stats.ActiveSessions,
			"gestures":        stats.Gestures,
			"reloads":         stats.Reloads,
		},
		"performance": map[string]interface{}{
			"avg_render_time_ms": stats.AverageRenderTime.Milliseconds(),
		},
	}
}

func clampInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

var _ ports.Metrics = (*Monitor)(nil)
