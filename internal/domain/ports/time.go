package ports

import "time"

// TickerFactory creates tickers; the carousel animation depends only on this
type TickerFactory interface {
	NewTicker(d time.Duration) Ticker
}

// TimeProvider abstracts time operations for testability
type TimeProvider interface {
	TickerFactory
	Now() time.Time
	Since(t time.Time) time.Duration
	NewTimer(d time.Duration) Timer
}

// Ticker abstracts time.Ticker for testability
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer abstracts time.Timer for testability
type Timer interface {
	C() <-chan time.Time
	Stop() bool
	Reset(d time.Duration) bool
}

// RealTimeProvider implements TimeProvider using standard time package
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider implementation
func NewRealTimeProvider() TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time
func (tp *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t
func (tp *RealTimeProvider) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// NewTicker creates a new ticker
func (tp *RealTimeProvider) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

// NewTimer creates a new timer
func (tp *RealTimeProvider) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) C() <-chan time.Time {
	return t.timer.C
}

func (t *realTimer) Stop() bool {
	return t.timer.Stop()
}

func (t *realTimer) Reset(d time.Duration) bool {
	return t.timer.Reset(d)
}
