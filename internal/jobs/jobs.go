package jobs

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"medconnect-server/internal/services"
)

// StartSweepScheduler runs the reminder and arrival sweeps on a fixed
// cadence. SkipIfStillRunning keeps a slow sweep from overlapping the
// next tick of the same job.
func StartSweepScheduler(notifications *services.NotificationService, logger zerolog.Logger) *cron.Cron {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	c.AddFunc("@every 1m", func() {
		if err := notifications.SweepReminders(); err != nil {
			logger.Error().Err(err).Msg("reminder sweep failed")
		}
	})

	c.AddFunc("@every 1m", func() {
		if err := notifications.SweepArrivals(); err != nil {
			logger.Error().Err(err).Msg("arrival sweep failed")
		}
	})

	c.Start()
	return c
}
