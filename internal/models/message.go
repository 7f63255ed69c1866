package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types; the enum is closed and must match the content shape.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeAudio = "audio"
	MessageTypeFile  = "file"
)

// ValidMessageType reports whether t is a member of the message type enum.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio, MessageTypeFile:
		return true
	}
	return false
}

// MessageContent is the body of a chat message: text or one attachment URL.
type MessageContent struct {
	Text  string `bson:"text,omitempty" json:"text,omitempty"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
	Video string `bson:"video,omitempty" json:"video,omitempty"`
	Audio string `bson:"audio,omitempty" json:"audio,omitempty"`
}

// IsEmpty reports whether the message has no payload at all.
func (c MessageContent) IsEmpty() bool {
	return c.Text == "" && c.Image == "" && c.Video == "" && c.Audio == ""
}

// ReadReceipt records that a user has seen a message; at most one per user.
type ReadReceipt struct {
	UserID primitive.ObjectID `bson:"user" json:"userId"`
	ReadAt time.Time          `bson:"read_at" json:"readAt"`
}

// Message is one entry in the family group chat. Deletion is logical.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID  primitive.ObjectID `bson:"sender" json:"senderId"`
	FamilyID  primitive.ObjectID `bson:"family" json:"familyId"`
	Content   MessageContent     `bson:"content" json:"content"`
	Type      string             `bson:"message_type" json:"messageType"`
	ReadBy    []ReadReceipt      `bson:"read_by" json:"readBy"`
	IsDeleted bool               `bson:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ReadByUser reports whether userID already has a read receipt on the message.
func (m *Message) ReadByUser(userID primitive.ObjectID) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// MessageView is a message with sender and readers populated.
type MessageView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    UserSummary        `json:"sender"`
	Content   MessageContent     `json:"content"`
	Type      string             `json:"messageType"`
	ReadBy    []ReadReceiptView  `json:"readBy"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ReadReceiptView struct {
	User   UserSummary `json:"user"`
	ReadAt time.Time   `json:"readAt"`
}
