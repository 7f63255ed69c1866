package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/email"
	"github.com/sirupsen/logrus"
)

// EventReminder scans for events starting within the next 24 hours and
// notifies attendees who have not declined. Each attendee gets at most one
// reminder per event.
type EventReminder struct {
	EventRepo           *repository.EventRepository
	UserRepo            *repository.UserRepository
	NotificationService *services.NotificationService
}

// NewEventReminder creates a new instance of EventReminder.
func NewEventReminder(eventRepo *repository.EventRepository, userRepo *repository.UserRepository, notifService *services.NotificationService) *EventReminder {
	return &EventReminder{
		EventRepo:           eventRepo,
		UserRepo:            userRepo,
		NotificationService: notifService,
	}
}

// RunDailyScan sends reminders for events due in the next 24 hours.
func (j *EventReminder) RunDailyScan(ctx context.Context) error {
	now := time.Now().UTC()
	tomorrow := now.Add(24 * time.Hour)

	events, err := j.EventRepo.GetEventsBetween(ctx, now, tomorrow)
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming events: %v", err)
	}

	reminded := 0
	for i := range events {
		event := &events[i]
		for _, attendee := range event.Attendees {
			if attendee.Status == models.RSVPNotGoing {
				continue
			}

			already, err := j.NotificationService.HasEventReminder(ctx, attendee.UserID, event.ID)
			if err != nil {
				logrus.WithError(err).Warn("Reminder dedup check failed")
				continue
			}
			if already {
				continue
			}

			message := fmt.Sprintf("\"%s\" starts on %s.", event.Title, event.EventDate.Format("Jan 2"))
			if event.EventTime != "" {
				message = fmt.Sprintf("\"%s\" starts on %s at %s.", event.Title, event.EventDate.Format("Jan 2"), event.EventTime)
			}

			if err := j.NotificationService.CreateNotification(
				ctx,
				attendee.UserID,
				"event_reminder",
				"Upcoming Event",
				message,
				&event.ID,
			); err != nil {
				logrus.WithError(err).Error("Failed to create event reminder")
				continue
			}
			reminded++

			// Email is best effort; the in-app notification already landed.
			if user, err := j.UserRepo.GetActiveUserByID(ctx, attendee.UserID); err == nil && user.Email != "" {
				if err := email.SendEmail(user.Email, "Upcoming Event: "+event.Title, message); err != nil {
					logrus.WithError(err).Warn("Failed to send reminder email")
				}
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"events":    len(events),
		"reminders": reminded,
	}).Info("Event reminder scan completed")
	return nil
}
