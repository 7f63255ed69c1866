package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLikeAddsThenRemoves(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	likes, isLiked := ToggleLike(nil, userID, now)
	assert.True(t, isLiked)
	require.Len(t, likes, 1)
	assert.Equal(t, userID, likes[0].UserID)
	assert.True(t, HasLike(likes, userID))

	likes, isLiked = ToggleLike(likes, userID, now.Add(time.Minute))
	assert.False(t, isLiked)
	assert.Empty(t, likes)
	assert.False(t, HasLike(likes, userID))
}

func TestToggleLikeLeavesOtherUsersAlone(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	now := time.Now()

	likes, _ := ToggleLike(nil, alice, now)
	likes, _ = ToggleLike(likes, bob, now)
	require.Len(t, likes, 2)

	likes, isLiked := ToggleLike(likes, alice, now)
	assert.False(t, isLiked)
	require.Len(t, likes, 1)
	assert.Equal(t, bob, likes[0].UserID)
	assert.True(t, HasLike(likes, bob))
}

func TestPostContentIsEmpty(t *testing.T) {
	assert.True(t, PostContent{}.IsEmpty())
	assert.False(t, PostContent{Text: "hello"}.IsEmpty())
	assert.False(t, PostContent{Images: []MediaItem{{URL: "https://example.com/a.jpg"}}}.IsEmpty())
	assert.False(t, PostContent{Videos: []MediaItem{{URL: "https://example.com/a.mp4"}}}.IsEmpty())
}

func TestValidPrivacy(t *testing.T) {
	assert.True(t, ValidPrivacy(PrivacyFamily))
	assert.True(t, ValidPrivacy(PrivacyPublic))
	assert.True(t, ValidPrivacy(PrivacyPrivate))
	assert.False(t, ValidPrivacy("friends"))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalItems)
	assert.True(t, p.HasMore)

	p = NewPagination(3, 10, 25)
	assert.False(t, p.HasMore)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasMore)

	p = NewPagination(1, 10, 10)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasMore)
}
