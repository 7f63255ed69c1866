package services

import (
	"context"
	"fmt"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Populator resolves stored user references into UserSummary projections
// for response assembly. Every list endpoint funnels its reference
// resolution through here instead of doing per-field lookups.
type Populator struct {
	userRepo *repository.UserRepository
}

// NewPopulator creates a new instance of Populator.
func NewPopulator(userRepo *repository.UserRepository) *Populator {
	return &Populator{userRepo: userRepo}
}

// Summaries fetches the referenced users in one query and returns them
// keyed by id. Unknown ids (deleted users) are simply absent.
func (p *Populator) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	unique := make(map[primitive.ObjectID]struct{}, len(ids))
	deduped := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, seen := unique[id]; !seen {
			unique[id] = struct{}{}
			deduped = append(deduped, id)
		}
	}

	users, err := p.userRepo.GetUsersByIDs(ctx, deduped)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user references: %v", err)
	}

	summaries := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		summaries[users[i].ID] = users[i].Summary()
	}
	return summaries, nil
}

// collectLikeCommentRefs gathers the user ids referenced by like and
// comment sub-lists.
func collectLikeCommentRefs(likes []models.Like, comments []models.Comment, into []primitive.ObjectID) []primitive.ObjectID {
	for _, l := range likes {
		into = append(into, l.UserID)
	}
	for _, c := range comments {
		into = append(into, c.UserID)
	}
	return into
}

// viewLikes and viewComments project the sub-lists with users resolved.
func viewLikes(likes []models.Like, summaries map[primitive.ObjectID]models.UserSummary) []models.LikeView {
	views := make([]models.LikeView, 0, len(likes))
	for _, l := range likes {
		views = append(views, models.LikeView{User: summaries[l.UserID], LikedAt: l.LikedAt})
	}
	return views
}

func viewComments(comments []models.Comment, summaries map[primitive.ObjectID]models.UserSummary) []models.CommentView {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{
			ID:        c.ID,
			User:      summaries[c.UserID],
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views
}
