package memwatch

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Reader returns the current virtual memory statistics.
type Reader func(ctx context.Context) (*mem.VirtualMemoryStat, error)

// Watcher polls system memory and calls OnLow once each time available
// memory falls below the threshold. It re-arms after memory recovers.
type Watcher struct {
	read      Reader
	threshold float64
	interval  time.Duration
	onLow     func(ctx context.Context)
	log       *zap.Logger

	low bool
}

func New(thresholdPercent float64, interval time.Duration, onLow func(ctx context.Context), log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		read:      mem.VirtualMemoryWithContext,
		threshold: thresholdPercent,
		interval:  interval,
		onLow:     onLow,
		log:       log,
	}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.threshold <= 0 {
		w.log.Info("low memory watcher disabled")
		return nil
	}

	w.log.Info("starting low memory watcher",
		zap.Float64("threshold_percent", w.threshold),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	stat, err := w.read(ctx)
	if err != nil {
		w.log.Warn("read memory stats", zap.Error(err))
		return
	}
	if stat.Total == 0 {
		return
	}

	available := float64(stat.Available) / float64(stat.Total) * 100
	if available >= w.threshold {
		w.low = false
		return
	}
	if w.low {
		return
	}

	w.low = true
	w.log.Warn("available memory below threshold",
		zap.Float64("available_percent", available),
		zap.Float64("threshold_percent", w.threshold))
	if w.onLow != nil {
		w.onLow(ctx)
	}
}
