package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privacy levels shared by posts and memories.
const (
	PrivacyPublic  = "public"
	PrivacyFamily  = "family"
	PrivacyPrivate = "private"
)

// ValidPrivacy reports whether p is a member of the closed privacy enum.
func ValidPrivacy(p string) bool {
	switch p {
	case PrivacyPublic, PrivacyFamily, PrivacyPrivate:
		return true
	}
	return false
}

// MediaItem is an image or video attachment with an optional caption.
type MediaItem struct {
	URL     string `bson:"url" json:"url"`
	Caption string `bson:"caption,omitempty" json:"caption,omitempty"`
}

// PostContent holds the body of a post: free text and/or attachments.
type PostContent struct {
	Text   string      `bson:"text,omitempty" json:"text,omitempty"`
	Images []MediaItem `bson:"images,omitempty" json:"images,omitempty"`
	Videos []MediaItem `bson:"videos,omitempty" json:"videos,omitempty"`
}

// IsEmpty reports whether the content carries neither text nor media.
func (c PostContent) IsEmpty() bool {
	return c.Text == "" && len(c.Images) == 0 && len(c.Videos) == 0
}

// Like is one entry in an entity's like list; a user appears at most once.
type Like struct {
	UserID  primitive.ObjectID `bson:"user" json:"userId"`
	LikedAt time.Time          `bson:"liked_at" json:"likedAt"`
}

// Comment is an append-only entry in an entity's comment list.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Post is a feed entry owned by a family. Deletion is logical via IsActive.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	FamilyID  primitive.ObjectID `bson:"family" json:"familyId"`
	Content   PostContent        `bson:"content" json:"content"`
	Likes     []Like             `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	Privacy   string             `bson:"privacy" json:"privacy"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasLike reports whether userID currently likes the post.
func HasLike(likes []Like, userID primitive.ObjectID) bool {
	for _, l := range likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// ToggleLike applies the strict like toggle to likes: if userID is present
// it is removed, otherwise appended with now. Returns the updated list and
// whether the user likes the entity afterwards.
func ToggleLike(likes []Like, userID primitive.ObjectID, now time.Time) ([]Like, bool) {
	if !HasLike(likes, userID) {
		return append(likes, Like{UserID: userID, LikedAt: now}), true
	}
	out := make([]Like, 0, len(likes)-1)
	for _, l := range likes {
		if l.UserID != userID {
			out = append(out, l)
		}
	}
	return out, false
}

// LikeView and CommentView are the populated projections of the sub-lists.
type LikeView struct {
	User    UserSummary `json:"user"`
	LikedAt time.Time   `json:"likedAt"`
}

type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	User      UserSummary        `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}

// PostView is a post with all user references populated.
type PostView struct {
	ID        primitive.ObjectID `json:"id"`
	Author    UserSummary        `json:"author"`
	Content   PostContent        `json:"content"`
	Likes     []LikeView         `json:"likes"`
	Comments  []CommentView      `json:"comments"`
	Privacy   string             `json:"privacy"`
	IsActive  bool               `json:"isActive"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Pagination is the paging block attached to list responses.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasMore     bool  `json:"hasMore"`
}

// NewPagination derives the paging block from page/limit and a total count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasMore:     page < totalPages,
	}
}
