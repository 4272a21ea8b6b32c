// Package monitoring exposes a process-wide error reporter. The default is a
// no-op; cmd installs the Sentry implementation from infra/monitoring when a
// DSN is configured.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	get().Flush(d)
}

// Report captures a recovered panic value and re-panics. Use it as
// `defer func() { monitoring.Report(recover()) }()` in goroutines; a deferred
// Recover method cannot see a panic once wrapped in another call.
func Report(r any) {
	if r == nil {
		return
	}
	m := get()
	func() {
		defer m.Recover()
		panic(r)
	}()
}
