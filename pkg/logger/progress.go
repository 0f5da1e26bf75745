package logger

import (
	"fmt"
	"time"
)

// ProgressTracker reports progress of a record-processing operation through
// the logger at a fixed interval. Reconciliation runs are single-threaded, so
// no locking is needed.
type ProgressTracker struct {
	logger      Logger
	operation   string
	total       int
	current     int
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
}

// NewProgressTracker creates a tracker for the named operation over the given
// number of records. A zero interval defaults to two seconds.
func NewProgressTracker(operation string, total int, interval time.Duration, log Logger) *ProgressTracker {
	if log == nil {
		log = GetGlobalLogger()
	}
	if interval == 0 {
		interval = 2 * time.Second
	}

	now := time.Now()
	tracker := &ProgressTracker{
		logger:      log.WithComponent("progress"),
		operation:   operation,
		total:       total,
		startTime:   now,
		lastLogTime: now,
		logInterval: interval,
	}

	tracker.logger.WithFields(Fields{
		"operation": operation,
		"total":     total,
	}).Debug("Starting operation")

	return tracker
}

// Increment advances the counter by one record.
func (p *ProgressTracker) Increment() {
	p.current++

	now := time.Now()
	if now.Sub(p.lastLogTime) >= p.logInterval {
		p.logProgress(now)
		p.lastLogTime = now
	}
}

// Complete logs final statistics for the operation.
func (p *ProgressTracker) Complete() {
	duration := time.Since(p.startTime)

	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": p.current,
		"total":     p.total,
		"duration":  duration.String(),
	}).Info("Operation completed")
}

func (p *ProgressTracker) logProgress(now time.Time) {
	elapsed := now.Sub(p.startTime)
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.current) / float64(p.total) * 100
	}

	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": p.current,
		"total":     p.total,
		"percent":   fmt.Sprintf("%.1f%%", percent),
		"elapsed":   elapsed.String(),
	}).Info("Operation in progress")
}
