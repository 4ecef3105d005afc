// Package progress reports processed/total counters for long layer scans,
// throttled so workers can report on every candidate without flooding the
// log.
package progress

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Tracker counts processed work items and logs the running ratio at most
// once per interval. All methods are safe for concurrent use.
type Tracker struct {
	logger   *slog.Logger
	label    string
	total    int64
	done     atomic.Int64
	started  time.Time
	throttle rate.Sometimes
	enabled  bool
}

// New creates a tracker for total items. A zero interval disables the
// periodic lines; Finish still logs the summary.
func New(logger *slog.Logger, label string, total int, interval time.Duration) *Tracker {
	t := &Tracker{
		logger:  logger,
		label:   label,
		total:   int64(total),
		started: time.Now(),
	}
	if interval > 0 {
		t.throttle = rate.Sometimes{Interval: interval}
		t.enabled = true
	}
	return t
}

// Add records n finished items.
func (t *Tracker) Add(n int) {
	done := t.done.Add(int64(n))
	if !t.enabled {
		return
	}
	t.throttle.Do(func() {
		t.logger.Info(t.label,
			"processed", done,
			"total", t.total,
			"elapsed", time.Since(t.started).Round(time.Millisecond),
		)
	})
}

// Done returns the processed count so far.
func (t *Tracker) Done() int64 { return t.done.Load() }

// Finish logs the final tally.
func (t *Tracker) Finish() {
	t.logger.Info(t.label+" done",
		"processed", t.done.Load(),
		"total", t.total,
		"elapsed", time.Since(t.started).Round(time.Millisecond),
	)
}
