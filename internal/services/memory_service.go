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

// MemoryService encapsulates the business logic for family memories.
type MemoryService struct {
	repo      *repository.MemoryRepository
	populator *Populator
}

// NewMemoryService creates a new instance of MemoryService.
func NewMemoryService(repo *repository.MemoryRepository, populator *Populator) *MemoryService {
	return &MemoryService{
		repo:      repo,
		populator: populator,
	}
}

// MemoryInput is the validated payload for creating a memory.
type MemoryInput struct {
	Title       string
	Description string
	MemoryDate  time.Time
	Media       []models.MemoryMedia
	Tags        []primitive.ObjectID
	Location    models.Location
	Privacy     string
}

// CreateMemory validates and stores a new memory; at least one complete
// media item is required.
func (s *MemoryService) CreateMemory(ctx context.Context, user *models.User, input MemoryInput) (*models.MemoryView, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, apperr.Validation("Memory title is required",
			apperr.FieldError{Field: "title", Message: "cannot be empty"})
	}
	if input.MemoryDate.IsZero() {
		return nil, apperr.Validation("Valid memory date is required",
			apperr.FieldError{Field: "memoryDate", Message: "must be an RFC 3339 date"})
	}
	if len(input.Media) == 0 {
		return nil, apperr.Validation("At least one media item is required",
			apperr.FieldError{Field: "media", Message: "cannot be empty"})
	}
	for _, m := range input.Media {
		if !m.Valid() {
			return nil, apperr.Validation("Invalid media item",
				apperr.FieldError{Field: "media", Message: "each item needs a url and a type of image or video"})
		}
	}
	if input.Privacy == "" {
		input.Privacy = models.PrivacyFamily
	}
	if !models.ValidPrivacy(input.Privacy) {
		return nil, apperr.Validation("Invalid privacy setting",
			apperr.FieldError{Field: "privacy", Message: "must be one of public, family, private"})
	}

	tags := make([]models.MemoryTag, 0, len(input.Tags))
	for _, id := range input.Tags {
		tags = append(tags, models.MemoryTag{UserID: id})
	}

	memory := &models.Memory{
		Title:       input.Title,
		Description: input.Description,
		MemoryDate:  input.MemoryDate.UTC(),
		CreatedBy:   user.ID,
		FamilyID:    user.FamilyID,
		Media:       input.Media,
		Tags:        tags,
		Location:    input.Location,
		Likes:       []models.Like{},
		Comments:    []models.Comment{},
		Privacy:     input.Privacy,
		IsActive:    true,
	}

	created, err := s.repo.CreateMemory(ctx, memory)
	if err != nil {
		return nil, apperr.Server("Server error creating memory", err)
	}

	logger.Log.WithField("memory_id", created.ID.Hex()).Info("Memory created in service layer")
	return s.buildView(ctx, created)
}

// GetMemories returns one populated page sorted by memory date descending.
func (s *MemoryService) GetMemories(ctx context.Context, familyID primitive.ObjectID, page, limit int) ([]models.MemoryView, models.Pagination, error) {
	memories, err := s.repo.GetFamilyMemories(ctx, familyID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching memories", err)
	}

	total, err := s.repo.CountFamilyMemories(ctx, familyID)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching memories", err)
	}

	var refs []primitive.ObjectID
	for i := range memories {
		refs = append(refs, memories[i].CreatedBy)
		for _, t := range memories[i].Tags {
			refs = append(refs, t.UserID)
		}
		refs = collectLikeCommentRefs(memories[i].Likes, memories[i].Comments, refs)
	}
	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, models.Pagination{}, apperr.Server("Server error fetching memories", err)
	}

	views := make([]models.MemoryView, 0, len(memories))
	for i := range memories {
		views = append(views, projectMemory(&memories[i], summaries))
	}
	return views, models.NewPagination(page, limit, total), nil
}

// GetMemory fetches one memory by id, ignoring the active flag so
// soft-deleted memories stay resolvable for audit.
func (s *MemoryService) GetMemory(ctx context.Context, familyID primitive.ObjectID, memoryID string) (*models.MemoryView, error) {
	objID, err := primitive.ObjectIDFromHex(memoryID)
	if err != nil {
		return nil, apperr.NotFound("Memory not found")
	}

	memory, err := s.repo.GetMemoryByID(ctx, objID, familyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Memory not found")
		}
		return nil, apperr.Server("Server error fetching memory", err)
	}
	return s.buildView(ctx, memory)
}

// ToggleLike flips the caller's like on a memory.
func (s *MemoryService) ToggleLike(ctx context.Context, user *models.User, memoryID string) (likesCount int, isLiked bool, err error) {
	objID, err := primitive.ObjectIDFromHex(memoryID)
	if err != nil {
		return 0, false, apperr.NotFound("Memory not found")
	}

	memory, err := s.repo.GetFamilyMemory(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return 0, false, apperr.NotFound("Memory not found")
		}
		return 0, false, apperr.Server("Server error processing like", err)
	}

	if _, isLiked = models.ToggleLike(memory.Likes, user.ID, time.Now()); isLiked {
		if _, err := s.repo.AddLike(ctx, objID, user.FamilyID, user.ID); err != nil {
			return 0, false, apperr.Server("Server error processing like", err)
		}
	} else {
		if _, err := s.repo.RemoveLike(ctx, objID, user.FamilyID, user.ID); err != nil {
			return 0, false, apperr.Server("Server error processing like", err)
		}
	}

	fresh, err := s.repo.GetFamilyMemory(ctx, objID, user.FamilyID)
	if err != nil {
		return 0, false, apperr.Server("Server error processing like", err)
	}

	logrus.WithFields(logrus.Fields{
		"memoryID": memoryID,
		"userID":   user.ID.Hex(),
		"isLiked":  isLiked,
	}).Info("Memory like toggled")
	return len(fresh.Likes), isLiked, nil
}

// AddComment appends a comment and returns the populated new entry.
func (s *MemoryService) AddComment(ctx context.Context, user *models.User, memoryID, text string) (*models.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("Comment text is required",
			apperr.FieldError{Field: "text", Message: "cannot be empty"})
	}

	objID, err := primitive.ObjectIDFromHex(memoryID)
	if err != nil {
		return nil, apperr.NotFound("Memory not found")
	}

	comment, err := s.repo.AddComment(ctx, objID, user.FamilyID, models.Comment{UserID: user.ID, Text: text})
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Memory not found")
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

// DeleteMemory soft-deletes a memory; only its creator or an admin may.
func (s *MemoryService) DeleteMemory(ctx context.Context, user *models.User, memoryID string) error {
	objID, err := primitive.ObjectIDFromHex(memoryID)
	if err != nil {
		return apperr.NotFound("Memory not found")
	}

	memory, err := s.repo.GetFamilyMemory(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return apperr.NotFound("Memory not found")
		}
		return apperr.Server("Server error deleting memory", err)
	}

	if memory.CreatedBy != user.ID && user.Role != models.RoleAdmin {
		return apperr.Authorization("You can only delete memories you created")
	}

	if err := s.repo.SoftDeleteMemory(ctx, objID); err != nil {
		return apperr.Server("Server error deleting memory", err)
	}
	return nil
}

func (s *MemoryService) buildView(ctx context.Context, memory *models.Memory) (*models.MemoryView, error) {
	refs := []primitive.ObjectID{memory.CreatedBy}
	for _, t := range memory.Tags {
		refs = append(refs, t.UserID)
	}
	refs = collectLikeCommentRefs(memory.Likes, memory.Comments, refs)

	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching memory", err)
	}

	view := projectMemory(memory, summaries)
	return &view, nil
}

func projectMemory(memory *models.Memory, summaries map[primitive.ObjectID]models.UserSummary) models.MemoryView {
	tags := make([]models.UserSummary, 0, len(memory.Tags))
	for _, t := range memory.Tags {
		tags = append(tags, summaries[t.UserID])
	}
	return models.MemoryView{
		ID:          memory.ID,
		Title:       memory.Title,
		Description: memory.Description,
		MemoryDate:  memory.MemoryDate,
		CreatedBy:   summaries[memory.CreatedBy],
		Media:       memory.Media,
		Tags:        tags,
		Location:    memory.Location,
		Likes:       viewLikes(memory.Likes, summaries),
		Comments:    viewComments(memory.Comments, summaries),
		Privacy:     memory.Privacy,
		IsActive:    memory.IsActive,
		CreatedAt:   memory.CreatedAt,
		UpdatedAt:   memory.UpdatedAt,
	}
}
