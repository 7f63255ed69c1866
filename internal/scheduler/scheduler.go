package scheduler

import (
	"context"

	"github.com/familygrove/familygrove/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderJobs schedules the daily event reminder scan. Returns the
// running cron so the caller can Stop it on shutdown.
func StartReminderJobs(reminder *jobs.EventReminder) *cron.Cron {
	c := cron.New()

	// Event reminders every morning at 08:00.
	c.AddFunc("0 8 * * *", func() {
		if err := reminder.RunDailyScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Event reminder scan failed")
		}
	})

	c.Start()
	return c
}
