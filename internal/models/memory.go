package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory media types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MemoryMedia is one required media item on a memory.
type MemoryMedia struct {
	Type    string `bson:"type" json:"type"`
	URL     string `bson:"url" json:"url"`
	Caption string `bson:"caption,omitempty" json:"caption,omitempty"`
}

// Valid reports whether the media item is complete and of a known type.
func (m MemoryMedia) Valid() bool {
	if m.URL == "" {
		return false
	}
	return m.Type == MediaTypeImage || m.Type == MediaTypeVideo
}

// MemoryTag references a user tagged in the memory.
type MemoryTag struct {
	UserID primitive.ObjectID `bson:"user" json:"userId"`
}

// Memory is a media-centric family post: at least one media item, optional
// tags, plus the same like/comment sub-lists as Post. Deletion is logical.
type Memory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MemoryDate  time.Time          `bson:"memory_date" json:"memoryDate"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	FamilyID    primitive.ObjectID `bson:"family" json:"familyId"`
	Media       []MemoryMedia      `bson:"media" json:"media"`
	Tags        []MemoryTag        `bson:"tags" json:"tags"`
	Location    Location           `bson:"location,omitempty" json:"location,omitempty"`
	Likes       []Like             `bson:"likes" json:"likes"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	Privacy     string             `bson:"privacy" json:"privacy"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// MemoryView is a memory with all user references populated.
type MemoryView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	MemoryDate  time.Time          `json:"memoryDate"`
	CreatedBy   UserSummary        `json:"createdBy"`
	Media       []MemoryMedia      `json:"media"`
	Tags        []UserSummary      `json:"tags"`
	Location    Location           `json:"location,omitempty"`
	Likes       []LikeView         `json:"likes"`
	Comments    []CommentView      `json:"comments"`
	Privacy     string             `json:"privacy"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
