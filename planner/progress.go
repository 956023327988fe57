package planner

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Progress receives status from a running plan and may request cancellation.
// Implementations must be safe for use from the planning goroutine while
// other goroutines read them.
type Progress interface {
	// SetLabel announces the current phase.
	SetLabel(label string)

	// SetProgress reports count units done out of max. count never decreases
	// within a phase. max saturates at math.MaxUint64.
	SetProgress(count, max uint64)

	// IsCancelled is polled at every permutation boundary.
	IsCancelled() bool
}

// NopProgress ignores all reports and never cancels.
type NopProgress struct{}

// SetLabel implements Progress.
func (NopProgress) SetLabel(string) {}

// SetProgress implements Progress.
func (NopProgress) SetProgress(uint64, uint64) {}

// IsCancelled implements Progress.
func (NopProgress) IsCancelled() bool { return false }

// LogProgress writes progress to a slog.Logger at a bounded rate: a line is
// emitted every Every units, when at least Interval has elapsed since the last
// line, or when count reaches max.
type LogProgress struct {
	logger   *slog.Logger
	every    uint64
	interval time.Duration

	mu    sync.Mutex
	label string
	last  time.Time

	cancelled atomic.Bool
}

// NewLogProgress returns a LogProgress. every == 0 disables count-based lines;
// interval == 0 disables time-based lines.
func NewLogProgress(logger *slog.Logger, every uint64, interval time.Duration) *LogProgress {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogProgress{logger: logger, every: every, interval: interval}
}

// SetLabel implements Progress.
func (p *LogProgress) SetLabel(label string) {
	p.mu.Lock()
	p.label = label
	p.mu.Unlock()
	p.logger.Info(label)
}

// SetProgress implements Progress.
func (p *LogProgress) SetProgress(count, max uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	due := count == max ||
		(p.every > 0 && count%p.every == 0) ||
		(p.interval > 0 && now.Sub(p.last) >= p.interval)
	if !due {
		return
	}
	p.last = now
	p.logger.Info("progress",
		slog.String("phase", p.label),
		slog.Uint64("count", count),
		slog.Uint64("max", max),
	)
}

// Cancel asks the running plan to stop at the next boundary.
func (p *LogProgress) Cancel() { p.cancelled.Store(true) }

// IsCancelled implements Progress.
func (p *LogProgress) IsCancelled() bool { return p.cancelled.Load() }
