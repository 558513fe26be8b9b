package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/pricedesk/internal/models"
	"github.com/bobmcallan/pricedesk/internal/services/snapshot"
)

// scheduledRunTimeout bounds one scheduled snapshot over the whole registry.
const scheduledRunTimeout = 10 * time.Minute

// StartScheduler registers the snapshot job at scheduler.cron (six fields,
// seconds first, read in returns.timezone) and starts the cron runner. It
// is a no-op when disabled.
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		return nil
	}
	if a.scheduler != nil {
		return fmt.Errorf("scheduler already running")
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(a.Config.Returns.Location()))
	if _, err := c.AddFunc(a.Config.Scheduler.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledRunTimeout)
		defer cancel()
		if _, err := a.RunScheduledSnapshot(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled snapshot failed")
		}
	}); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}

	c.Start()
	a.scheduler = c
	a.Logger.Info().Str("cron", a.Config.Scheduler.Cron).Msg("Snapshot scheduler started")
	return nil
}

// StopScheduler stops the cron runner and waits for a running job.
func (a *App) StopScheduler() {
	if a.scheduler == nil {
		return
	}
	<-a.scheduler.Stop().Done()
	a.scheduler = nil
	a.Logger.Info().Msg("Snapshot scheduler stopped")
}

// RunScheduledSnapshot computes today's snapshot for the whole registry
// and records it.
func (a *App) RunScheduledSnapshot(ctx context.Context) (*models.Snapshot, error) {
	instruments := a.Registry.Instruments()
	if len(instruments) == 0 {
		return nil, fmt.Errorf("instrument registry is empty")
	}

	start := time.Now()
	snap, err := a.Snapshots.Run(ctx, snapshot.Request{
		Date:        a.Snapshots.Today(),
		Instruments: instruments,
	})
	if err != nil {
		return nil, err
	}

	if err := a.Recorder.RecordSnapshot(ctx, snap); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to record snapshot")
	}

	counts := snap.Counts()
	a.Logger.Info().
		Str("date", snap.Date.String()).
		Int("ok", counts[models.StatusOK]).
		Int("partial", counts[models.StatusPartial]).
		Int("no_data", counts[models.StatusNoData]).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled snapshot: complete")
	return snap, nil
}
