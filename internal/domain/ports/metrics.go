package ports

import "time"

// Metrics records server activity
type Metrics interface {
	RecordHTTPRequest()
	RecordPageRender(duration time.Duration)
	SessionOpened()
	SessionClosed()
	RecordGesture(kind string)
	RecordReload()
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordHTTPRequest()             {}
func (NopMetrics) RecordPageRender(time.Duration) {}
func (NopMetrics) SessionOpened()                 {}
func (NopMetrics) SessionClosed()                 {}
func (NopMetrics) RecordGesture(string)           {}
func (NopMetrics) RecordReload()                  {}

var _ Metrics = NopMetrics{}
