// Package reporter periodically logs the gateway request counter and uptime.
//
// The schedule is a cron expression with an optional seconds field, or a
// descriptor such as "@every 5m" or "@hourly". Each report includes the
// requests received since the previous report.
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nimproxy/pkg/config"
	"nimproxy/pkg/stats"

	"github.com/robfig/cron/v3"
)

// Source provides the gateway state to report.
type Source interface {
	Snapshot() stats.Snapshot
}

// Reporter logs a stats snapshot on a cron schedule.
type Reporter struct {
	schedule string
	source   Source
	cron     *cron.Cron
	logger   *slog.Logger

	mu       sync.Mutex
	running  bool
	previous int64
}

// New creates a reporter. A nil logger uses slog.Default.
func New(schedule string, source Source, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		schedule: schedule,
		source:   source,
		cron:     cron.New(cron.WithParser(config.ReportParser)),
		logger:   logger.With("component", "telemetry.reporter"),
	}
}

// Start schedules the report job. When ctx is cancelled the reporter stops.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, r.report); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("stats reporter started", "schedule", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// report logs one snapshot.
func (r *Reporter) report() {
	snap := r.source.Snapshot()

	r.mu.Lock()
	delta := snap.TotalRequests - r.previous
	r.previous = snap.TotalRequests
	r.mu.Unlock()

	r.logger.Info("gateway stats",
		"total_requests", snap.TotalRequests,
		"requests_since_last_report", delta,
		"uptime", snap.Uptime.Truncate(time.Second).String(),
		"uptime_seconds", snap.Uptime.Seconds(),
	)
}

// Stop stops the scheduler and waits for a running report to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	r.logger.Info("stats reporter stopped")
}

// IsRunning returns true if the reporter is scheduled.
func (r *Reporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// NextRun returns the next scheduled report time, or nil when not running.
func (r *Reporter) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
