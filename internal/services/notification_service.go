package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService encapsulates in-app notifications. Currently only
// the event-reminder job produces them.
type NotificationService struct {
	repo *repository.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification stores a notification for a user.
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		TargetID: targetID,
	}
	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %v", err)
	}
	return nil
}

// GetNotifications returns the caller's unexpired notifications.
func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	notifications, err := s.repo.GetUserNotifications(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Server error fetching notifications", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications as viewed.
func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, notificationID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return apperr.NotFound("Notification not found")
	}

	if err := s.repo.MarkAsRead(ctx, objID, userID); err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return apperr.NotFound("Notification not found")
		}
		return apperr.Server("Server error updating notification", err)
	}
	return nil
}

// HasEventReminder reports whether the user was already reminded about the
// event.
func (s *NotificationService) HasEventReminder(ctx context.Context, userID, eventID primitive.ObjectID) (bool, error) {
	exists, err := s.repo.HasReminder(ctx, userID, eventID, "event_reminder")
	if err != nil {
		logrus.WithError(err).Warn("Failed to check reminder state")
		return false, err
	}
	return exists, nil
}
