package persist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kayz/sift/internal/logger"
	"github.com/robfig/cron/v3"
)

// Maintainer periodically prunes old evaluations and checkpoints the WAL.
type Maintainer struct {
	cron      *cron.Cron
	store     *Store
	retention time.Duration
	timeout   time.Duration
}

// NewMaintainer schedules maintenance on store. retentionDays <= 0 keeps all
// evaluations and only checkpoints.
func NewMaintainer(store *Store, schedule string, retentionDays int) (*Maintainer, error) {
	m := &Maintainer{
		cron:    cron.New(cron.WithSeconds()),
		store:   store,
		timeout: time.Minute,
	}
	if retentionDays > 0 {
		m.retention = time.Duration(retentionDays) * 24 * time.Hour
	}

	if _, err := m.cron.AddFunc(normalizeCron(schedule), m.run); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return m, nil
}

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

func (m *Maintainer) Start() {
	m.cron.Start()
	logger.Info("[Maintenance] scheduler started")
}

// Stop waits for a running job to finish.
func (m *Maintainer) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	logger.Info("[Maintenance] scheduler stopped")
}

func (m *Maintainer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.RunOnce(ctx); err != nil {
		logger.Error("[Maintenance] %v", err)
	}
}

// RunOnce performs one maintenance pass.
func (m *Maintainer) RunOnce(ctx context.Context) error {
	if m.retention > 0 {
		cutoff := m.store.now().Add(-m.retention)
		n, err := m.store.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("[Maintenance] pruned %d evaluation(s) older than %s", n, cutoff.Format(time.RFC3339))
		}
	}
	if err := m.store.Checkpoint(ctx); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
