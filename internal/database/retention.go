package database

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
)

// RetentionSweeper periodically prunes monitoring events that have aged out
// of the retention window. The event log is append-only during a session;
// bounding it is the persistence layer's job, not the engine's.
type RetentionSweeper struct {
	events    *EventStore
	retention time.Duration
	log       *logger.Logger
	cron      *cron.Cron
}

// NewRetentionSweeper creates a sweeper over the given event store.
func NewRetentionSweeper(db *Database, log *logger.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		events:    db.Events(),
		retention: db.Config().EventRetention,
		log:       log,
		cron:      cron.New(),
	}
}

// Start schedules the sweep. The schedule is a standard cron expression
// and defaults to hourly.
func (r *RetentionSweeper) Start(spec string) error {
	if spec == "" {
		spec = "@hourly"
	}
	if _, err := r.cron.AddFunc(spec, r.sweep); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *RetentionSweeper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-r.retention)
	pruned, err := r.events.PruneBefore(ctx, cutoff)
	if err != nil {
		r.log.WithError(err).Error("event retention sweep failed")
		return
	}
	if pruned > 0 {
		r.log.WithFields(map[string]interface{}{
			"pruned": pruned,
			"cutoff": cutoff,
		}).Info("pruned expired monitoring events")
	}
}
