package services

import (
	"context"
	"errors"
	"strings"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService encapsulates the business logic for the family group chat.
type MessageService struct {
	repo      *repository.MessageRepository
	populator *Populator
}

// NewMessageService creates a new instance of MessageService.
func NewMessageService(repo *repository.MessageRepository, populator *Populator) *MessageService {
	return &MessageService{
		repo:      repo,
		populator: populator,
	}
}

// SendMessage validates and stores a chat message; the sender starts out
// on the read-receipt list.
func (s *MessageService) SendMessage(ctx context.Context, user *models.User, content models.MessageContent, messageType string) (*models.MessageView, error) {
	content.Text = strings.TrimSpace(content.Text)
	if content.IsEmpty() {
		return nil, apperr.Validation("Message must have content")
	}

	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !models.ValidMessageType(messageType) {
		return nil, apperr.Validation("Invalid message type",
			apperr.FieldError{Field: "messageType", Message: "must be one of text, image, video, audio, file"})
	}

	msg := &models.Message{
		SenderID: user.ID,
		FamilyID: user.FamilyID,
		Content:  content,
		Type:     messageType,
		ReadBy:   []models.ReadReceipt{},
	}

	created, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, apperr.Server("Server error sending message", err)
	}

	// Mark as read by the sender.
	if err := s.repo.MarkRead(ctx, []primitive.ObjectID{created.ID}, user.ID); err != nil {
		logrus.WithError(err).Warn("Failed to mark own message read")
	}

	view, err := s.buildViews(ctx, []models.Message{*created})
	if err != nil {
		return nil, err
	}
	return &view[0], nil
}

// GetMessages returns one page of chat history in chronological order and,
// as a side effect of the read, appends a read receipt for the caller on
// every message they had not seen yet.
func (s *MessageService) GetMessages(ctx context.Context, user *models.User, page, limit int) ([]models.MessageView, error) {
	messages, err := s.repo.GetFamilyMessages(ctx, user.FamilyID, page, limit)
	if err != nil {
		return nil, apperr.Server("Server error fetching messages", err)
	}

	var unread []primitive.ObjectID
	for i := range messages {
		if !messages[i].ReadByUser(user.ID) {
			unread = append(unread, messages[i].ID)
		}
	}
	if len(unread) > 0 {
		if err := s.repo.MarkRead(ctx, unread, user.ID); err != nil {
			logrus.WithError(err).Warn("Failed to mark messages read")
		}
	}

	// Page comes newest-first from the store; flip it for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return s.buildViews(ctx, messages)
}

// UnreadCount counts family messages without a receipt from the caller.
func (s *MessageService) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	count, err := s.repo.CountUnread(ctx, user.FamilyID, user.ID)
	if err != nil {
		return 0, apperr.Server("Server error getting unread count", err)
	}
	return count, nil
}

// DeleteMessage soft-deletes a message; only the sender may.
func (s *MessageService) DeleteMessage(ctx context.Context, user *models.User, messageID string) error {
	objID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return apperr.NotFound("Message not found")
	}

	// Sender-scoped lookup: a foreign message reads as absent.
	if _, err := s.repo.GetSenderMessage(ctx, objID, user.FamilyID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return apperr.NotFound("Message not found or you cannot delete this message")
		}
		return apperr.Server("Server error deleting message", err)
	}

	if err := s.repo.SoftDeleteMessage(ctx, objID); err != nil {
		return apperr.Server("Server error deleting message", err)
	}

	logrus.WithField("messageID", messageID).Info("Message deleted")
	return nil
}

func (s *MessageService) buildViews(ctx context.Context, messages []models.Message) ([]models.MessageView, error) {
	var refs []primitive.ObjectID
	for i := range messages {
		refs = append(refs, messages[i].SenderID)
		for _, r := range messages[i].ReadBy {
			refs = append(refs, r.UserID)
		}
	}

	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching messages", err)
	}

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		readBy := make([]models.ReadReceiptView, 0, len(m.ReadBy))
		for _, r := range m.ReadBy {
			readBy = append(readBy, models.ReadReceiptView{User: summaries[r.UserID], ReadAt: r.ReadAt})
		}
		views = append(views, models.MessageView{
			ID:        m.ID,
			Sender:    summaries[m.SenderID],
			Content:   m.Content,
			Type:      m.Type,
			ReadBy:    readBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}
