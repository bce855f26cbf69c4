// Package stats holds the process-wide gateway state.
//
// A single Gateway is created at startup and passed to the handlers that
// need it. Nothing in it is persisted; it lives exactly as long as the process.
package stats

import (
	"sync/atomic"
	"time"
)

// Gateway tracks the request counter and process start time.
// It is safe for concurrent use.
type Gateway struct {
	totalRequests atomic.Int64
	startedAt     time.Time
	now           func() time.Time
}

// New creates a Gateway whose uptime starts now.
func New() *Gateway {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Gateway {
	return &Gateway{
		startedAt: now(),
		now:       now,
	}
}

// IncrementRequests records one chat-completion call and returns the new total.
func (g *Gateway) IncrementRequests() int64 {
	return g.totalRequests.Add(1)
}

// TotalRequests returns the number of chat-completion calls seen so far.
func (g *Gateway) TotalRequests() int64 {
	return g.totalRequests.Load()
}

// StartedAt returns the time the gateway state was created.
func (g *Gateway) StartedAt() time.Time {
	return g.startedAt
}

// Uptime returns the time elapsed since StartedAt.
func (g *Gateway) Uptime() time.Duration {
	return g.now().Sub(g.startedAt)
}

// Snapshot is a point-in-time view used by the health endpoint and reporter.
type Snapshot struct {
	TotalRequests int64
	Uptime        time.Duration
}

// Snapshot returns the current counter and uptime.
func (g *Gateway) Snapshot() Snapshot {
	return Snapshot{
		TotalRequests: g.TotalRequests(),
		Uptime:        g.Uptime(),
	}
}
