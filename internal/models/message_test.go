package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMessageContentIsEmpty(t *testing.T) {
	assert.True(t, MessageContent{}.IsEmpty())
	assert.False(t, MessageContent{Text: "hi"}.IsEmpty())
	assert.False(t, MessageContent{Image: "https://example.com/a.jpg"}.IsEmpty())
	assert.False(t, MessageContent{Audio: "https://example.com/a.ogg"}.IsEmpty())
}

func TestMessageReadByUser(t *testing.T) {
	reader := primitive.NewObjectID()
	other := primitive.NewObjectID()

	msg := Message{
		ReadBy: []ReadReceipt{{UserID: reader, ReadAt: time.Now()}},
	}

	assert.True(t, msg.ReadByUser(reader))
	assert.False(t, msg.ReadByUser(other))
}

func TestValidMessageType(t *testing.T) {
	for _, mt := range []string{MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio, MessageTypeFile} {
		assert.True(t, ValidMessageType(mt), mt)
	}
	assert.False(t, ValidMessageType("gif"))
}
