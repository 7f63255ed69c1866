package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService encapsulates the business logic for the family feed.
type PostService struct {
	repo      *repository.PostRepository
	populator *Populator
}

// NewPostService creates a new instance of PostService.
func NewPostService(repo *repository.PostRepository, populator *Populator) *PostService {
	return &PostService{
		repo:      repo,
		populator: populator,
	}
}

// CreatePost validates and stores a new feed post.
func (s *PostService) CreatePost(ctx context.Context, user *models.User, content models.PostContent, privacy string) (*models.PostView, error) {
	content.Text = strings.TrimSpace(content.Text)
	if content.IsEmpty() {
		return nil, apperr.Validation("Post must have text, images, or videos")
	}

	if privacy == "" {
		privacy = models.PrivacyFamily
	}
	if !models.ValidPrivacy(privacy) {
		return nil, apperr.Validation("Invalid privacy setting",
			apperr.FieldError{Field: "privacy", Message: "must be one of public, family, private"})
	}

	post := &models.Post{
		UserID:   user.ID,
		FamilyID: user.FamilyID,
		Content:  content,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Privacy:  privacy,
		IsActive: true,
	}

	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, apperr.Server("Server error creating post", err)
	}

	view, err := s.buildView(ctx, created)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("post_id", created.ID.Hex()).Info("Post created in service layer")
	return view, nil
}

// GetPosts returns one populated page of the family feed plus pagination.
func (s *PostService) GetPosts(ctx context.Context, familyID primitive.ObjectID, page, limit int) ([]models.PostView, models.Pagination, error) {
	posts, err := s.repo.GetFamilyPosts(ctx, familyID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching posts", err)
	}

	total, err := s.repo.CountFamilyPosts(ctx, familyID)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching posts", err)
	}

	var refs []primitive.ObjectID
	for i := range posts {
		refs = append(refs, posts[i].UserID)
		refs = collectLikeCommentRefs(posts[i].Likes, posts[i].Comments, refs)
	}
	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching posts", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, projectPost(&posts[i], summaries))
	}
	return views, models.NewPagination(page, limit, total), nil
}

// GetPost fetches one post by id, ignoring the active flag so soft-deleted
// posts stay resolvable for audit.
func (s *PostService) GetPost(ctx context.Context, familyID primitive.ObjectID, postID string) (*models.PostView, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperr.NotFound("Post not found")
	}

	post, err := s.repo.GetPostByID(ctx, objID, familyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Server("Server error fetching post", err)
	}
	return s.buildView(ctx, post)
}

// ToggleLike flips the caller's like on a post: a strict toggle, two calls
// return the post to its original state.
func (s *PostService) ToggleLike(ctx context.Context, user *models.User, postID string) (likesCount int, isLiked bool, err error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, false, apperr.NotFound("Post not found")
	}

	post, err := s.repo.GetFamilyPost(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return 0, false, apperr.NotFound("Post not found")
		}
		return 0, false, apperr.Server("Server error processing like", err)
	}

	if _, isLiked = models.ToggleLike(post.Likes, user.ID, time.Now()); isLiked {
		if _, err := s.repo.AddLike(ctx, objID, user.FamilyID, user.ID); err != nil {
			return 0, false, apperr.Server("Server error processing like", err)
		}
	} else {
		if _, err := s.repo.RemoveLike(ctx, objID, user.FamilyID, user.ID); err != nil {
			return 0, false, apperr.Server("Server error processing like", err)
		}
	}

	count, err := s.repo.CountLikes(ctx, objID, user.FamilyID)
	if err != nil {
		return 0, false, apperr.Server("Server error processing like", err)
	}

	logrus.WithFields(logrus.Fields{
		"postID":  postID,
		"userID":  user.ID.Hex(),
		"isLiked": isLiked,
	}).Info("Post like toggled")
	return count, isLiked, nil
}

// AddComment appends a comment and returns the populated new entry.
func (s *PostService) AddComment(ctx context.Context, user *models.User, postID, text string) (*models.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("Comment text is required",
			apperr.FieldError{Field: "text", Message: "cannot be empty"})
	}

	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperr.NotFound("Post not found")
	}

	comment, err := s.repo.AddComment(ctx, objID, user.FamilyID, models.Comment{UserID: user.ID, Text: text})
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Server("Server error adding comment", err)
	}

	return &models.CommentView{
		ID:        comment.ID,
		User:      user.Summary(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// DeletePost soft-deletes a post; only its author or a family admin may.
func (s *PostService) DeletePost(ctx context.Context, user *models.User, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return apperr.NotFound("Post not found")
	}

	post, err := s.repo.GetFamilyPost(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return apperr.NotFound("Post not found")
		}
		return apperr.Server("Server error deleting post", err)
	}

	if post.UserID != user.ID && user.Role != models.RoleAdmin {
		return apperr.Authorization("You can only delete your own posts")
	}

	if err := s.repo.SoftDeletePost(ctx, objID); err != nil {
		return apperr.Server("Server error deleting post", err)
	}
	return nil
}

func (s *PostService) buildView(ctx context.Context, post *models.Post) (*models.PostView, error) {
	refs := []primitive.ObjectID{post.UserID}
	refs = collectLikeCommentRefs(post.Likes, post.Comments, refs)

	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching post", err)
	}

	view := projectPost(post, summaries)
	return &view, nil
}

func projectPost(post *models.Post, summaries map[primitive.ObjectID]models.UserSummary) models.PostView {
	return models.PostView{
		ID:        post.ID,
		Author:    summaries[post.UserID],
		Content:   post.Content,
		Likes:     viewLikes(post.Likes, summaries),
		Comments:  viewComments(post.Comments, summaries),
		Privacy:   post.Privacy,
		IsActive:  post.IsActive,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
