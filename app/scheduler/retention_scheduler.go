// Package scheduler runs periodic background maintenance jobs
package scheduler

import (
	"context"
	"log"
	"time"

	businessflow "github.com/focale-app/focale/business_flow"
)

// RetentionScheduler periodically trims the audit trail to the configured
// retention window. Contract proof entries survive every cleanup.
type RetentionScheduler struct {
	auditFlow businessflow.AuditFlow
	logger    *log.Logger
	interval  time.Duration
	years     int
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(auditFlow businessflow.AuditFlow, logger *log.Logger, interval time.Duration, years int) *RetentionScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &RetentionScheduler{
		auditFlow: auditFlow,
		logger:    logger,
		interval:  interval,
		years:     years,
	}
}

// Start launches the cleanup loop. The returned function stops it.
func (s *RetentionScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *RetentionScheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 10*time.Minute)
	defer cancel()

	removed, err := s.auditFlow.CleanupOldLogs(ctx, s.years)
	if err != nil {
		s.logger.Printf("scheduler: audit retention cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		s.logger.Printf("scheduler: audit retention cleanup removed %d entries older than %d years", removed, s.years)
	}
}
