package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository handles database operations on the messages collection.
type MessageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		collection: db.Collection("messages"),
	}
}

// CreateMessage inserts a new chat message.
func (r *MessageRepository) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert message")
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	msg.ID = insertedID
	return msg, nil
}

// GetFamilyMessages returns one page of a family's messages, newest first.
// The caller reverses the page for chronological display.
func (r *MessageRepository) GetFamilyMessages(ctx context.Context, familyID primitive.ObjectID, page, limit int) ([]models.Message, error) {
	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"family": familyID, "is_deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// GetSenderMessage fetches a live message scoped to its sender and family;
// only the sender may delete their own messages.
func (r *MessageRepository) GetSenderMessage(ctx context.Context, messageID, familyID, senderID primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	filter := bson.M{
		"_id":        messageID,
		"family":     familyID,
		"sender":     senderID,
		"is_deleted": false,
	}
	if err := r.collection.FindOne(ctx, filter).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead appends read receipts for userID on the given messages. The
// receipt filter keeps a user from ever appearing twice on one message.
func (r *MessageRepository) MarkRead(ctx context.Context, messageIDs []primitive.ObjectID, userID primitive.ObjectID) error {
	if len(messageIDs) == 0 {
		return nil
	}

	filter := bson.M{
		"_id":          bson.M{"$in": messageIDs},
		"read_by.user": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{"read_by": models.ReadReceipt{UserID: userID, ReadAt: time.Now()}},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %v", err)
	}
	return nil
}

// CountUnread counts live family messages the user has no receipt on.
func (r *MessageRepository) CountUnread(ctx context.Context, familyID, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"family":       familyID,
		"is_deleted":   false,
		"read_by.user": bson.M{"$ne": userID},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %v", err)
	}
	return count, nil
}

// SoftDeleteMessage flips the deletion flag and stamps the time.
func (r *MessageRepository) SoftDeleteMessage(ctx context.Context, messageID primitive.ObjectID) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "updated_at": now}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": messageID}, update)
	if err != nil {
		return fmt.Errorf("failed to delete message: %v", err)
	}
	return nil
}
