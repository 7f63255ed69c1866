package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const familyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const familyCodeLength = 6

// FamilyService encapsulates the business logic for family membership.
type FamilyService struct {
	repo       *repository.FamilyRepository
	userRepo   *repository.UserRepository
	populator  *Populator
	familyName string
}

// NewFamilyService creates a new instance of FamilyService. familyName is
// the canonical shared family every code-less registrant joins.
func NewFamilyService(repo *repository.FamilyRepository, userRepo *repository.UserRepository, populator *Populator, familyName string) *FamilyService {
	return &FamilyService{
		repo:       repo,
		userRepo:   userRepo,
		populator:  populator,
		familyName: familyName,
	}
}

// generateFamilyCode produces a short join code without ambiguous glyphs.
func generateFamilyCode() (string, error) {
	code := make([]byte, familyCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(familyCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = familyCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// BindRegistrant attaches a fresh registrant to a family and returns the
// family plus the role the user ends up with. With a join code the family
// must exist; without one the canonical shared family is found or created,
// and its creator becomes admin.
func (s *FamilyService) BindRegistrant(ctx context.Context, userID primitive.ObjectID, familyCode string) (*models.Family, string, error) {
	if familyCode != "" {
		family, err := s.repo.GetFamilyByCode(ctx, familyCode)
		if err != nil {
			if errors.Is(err, repository.ErrNoDocuments) {
				return nil, "", apperr.NotFound("Invalid family code")
			}
			return nil, "", apperr.Server("Server error during registration", err)
		}

		if err := s.repo.AddMember(ctx, family.ID, models.FamilyMember{UserID: userID, Relationship: "member"}); err != nil {
			return nil, "", apperr.Server("Server error during registration", err)
		}
		return family, models.RoleMember, nil
	}

	family, err := s.repo.GetFamilyByName(ctx, s.familyName)
	if err == nil {
		if err := s.repo.AddMember(ctx, family.ID, models.FamilyMember{UserID: userID, Relationship: "member"}); err != nil {
			return nil, "", apperr.Server("Server error during registration", err)
		}
		logger.Log.WithField("family_id", family.ID.Hex()).Info("User joined existing shared family")
		return family, models.RoleMember, nil
	}
	if !errors.Is(err, repository.ErrNoDocuments) {
		return nil, "", apperr.Server("Server error during registration", err)
	}

	// First ever registrant: create the shared family with them as admin.
	family, err = s.createFamily(ctx, userID, s.familyName, "")
	if err != nil {
		var appErr *apperr.Error
		// Lost the creation race: someone else just made it, join instead.
		if errors.As(err, &appErr) && appErr.Code == apperr.CodeConflict {
			family, lookupErr := s.repo.GetFamilyByName(ctx, s.familyName)
			if lookupErr != nil {
				return nil, "", apperr.Server("Server error during registration", lookupErr)
			}
			if addErr := s.repo.AddMember(ctx, family.ID, models.FamilyMember{UserID: userID, Relationship: "member"}); addErr != nil {
				return nil, "", apperr.Server("Server error during registration", addErr)
			}
			return family, models.RoleMember, nil
		}
		return nil, "", err
	}

	logger.Log.WithField("family_id", family.ID.Hex()).Info("Shared family created by first registrant")
	return family, models.RoleAdmin, nil
}

// createFamily inserts a family with userID as admin and sole member.
func (s *FamilyService) createFamily(ctx context.Context, userID primitive.ObjectID, name, description string) (*models.Family, error) {
	code, err := generateFamilyCode()
	if err != nil {
		return nil, apperr.Server("Failed to generate family code", err)
	}

	family := &models.Family{
		Name:        name,
		Description: description,
		FamilyCode:  code,
		AdminID:     userID,
		Members:     []models.FamilyMember{{UserID: userID, Relationship: "admin"}},
		IsActive:    true,
	}

	created, err := s.repo.CreateFamily(ctx, family)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, apperr.Conflict("A family with this name already exists")
		}
		return nil, apperr.Server("Server error creating family", err)
	}
	return created, nil
}

// CreateFamily handles POST /family for a user who has no family yet; the
// creator becomes admin.
func (s *FamilyService) CreateFamily(ctx context.Context, user *models.User, name, description string) (*models.Family, error) {
	if name == "" {
		return nil, apperr.Validation("Family name is required",
			apperr.FieldError{Field: "name", Message: "cannot be empty"})
	}
	if !user.FamilyID.IsZero() {
		return nil, apperr.Validation("You are already part of a family")
	}

	family, err := s.createFamily(ctx, user.ID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetFamily(ctx, user.ID, family.ID, models.RoleAdmin); err != nil {
		return nil, apperr.Server("Server error creating family", err)
	}
	return family, nil
}

// GetFamily fetches a family by id.
func (s *FamilyService) GetFamily(ctx context.Context, id primitive.ObjectID) (*models.Family, error) {
	family, err := s.repo.GetFamilyByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Family not found")
		}
		return nil, apperr.Server("Server error fetching family", err)
	}
	return family, nil
}

// GetFamilyView returns the caller's family with admin and members
// populated.
func (s *FamilyService) GetFamilyView(ctx context.Context, familyID primitive.ObjectID) (*models.FamilyView, error) {
	family, err := s.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	refs := []primitive.ObjectID{family.AdminID}
	for _, m := range family.Members {
		refs = append(refs, m.UserID)
	}

	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching family", err)
	}

	// Members also carry last-seen for presence display.
	users, err := s.userRepo.GetUsersByIDs(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching family", err)
	}
	lastSeen := make(map[primitive.ObjectID]models.User, len(users))
	for i := range users {
		lastSeen[users[i].ID] = users[i]
	}

	members := make([]models.FamilyMemberView, 0, len(family.Members))
	for _, m := range family.Members {
		view := models.FamilyMemberView{
			User:         summaries[m.UserID],
			Relationship: m.Relationship,
			JoinedAt:     m.JoinedAt,
		}
		if u, ok := lastSeen[m.UserID]; ok {
			view.LastSeen = u.LastSeen
		}
		members = append(members, view)
	}

	return &models.FamilyView{
		ID:          family.ID,
		Name:        family.Name,
		Description: family.Description,
		FamilyCode:  family.FamilyCode,
		Admin:       summaries[family.AdminID],
		Members:     members,
		CreatedAt:   family.CreatedAt,
	}, nil
}

// UpdateFamily applies name/description changes, admin only (the handler
// enforces the role gate).
func (s *FamilyService) UpdateFamily(ctx context.Context, familyID primitive.ObjectID, name, description *string) (*models.Family, error) {
	update := map[string]interface{}{}
	if name != nil {
		if *name == "" {
			return nil, apperr.Validation("Family name cannot be empty",
				apperr.FieldError{Field: "name", Message: "cannot be empty"})
		}
		update["name"] = *name
	}
	if description != nil {
		update["description"] = *description
	}
	if len(update) == 0 {
		return nil, apperr.Validation("No family fields to update")
	}

	family, err := s.repo.UpdateFamily(ctx, familyID, update)
	if err != nil {
		return nil, apperr.Server("Server error updating family", err)
	}
	return family, nil
}

// JoinFamily adds a family-less user to the family matching the code.
func (s *FamilyService) JoinFamily(ctx context.Context, user *models.User, familyCode string) (*models.Family, error) {
	if familyCode == "" {
		return nil, apperr.Validation("Family code is required",
			apperr.FieldError{Field: "familyCode", Message: "cannot be empty"})
	}
	if !user.FamilyID.IsZero() {
		return nil, apperr.Validation("You are already part of a family")
	}

	family, err := s.repo.GetFamilyByCode(ctx, familyCode)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Invalid family code")
		}
		return nil, apperr.Server("Server error joining family", err)
	}

	if family.HasMember(user.ID) {
		return nil, apperr.Validation("You are already a member of this family")
	}

	if err := s.repo.AddMember(ctx, family.ID, models.FamilyMember{UserID: user.ID, Relationship: "member"}); err != nil {
		return nil, apperr.Server("Server error joining family", err)
	}
	if err := s.userRepo.SetFamily(ctx, user.ID, family.ID, models.RoleMember); err != nil {
		return nil, apperr.Server("Server error joining family", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID":   user.ID.Hex(),
		"familyID": family.ID.Hex(),
	}).Info("User joined family")
	return family, nil
}

// LeaveFamily removes the caller from their family. The admin must hand
// over the role before leaving.
func (s *FamilyService) LeaveFamily(ctx context.Context, user *models.User) error {
	family, err := s.GetFamily(ctx, user.FamilyID)
	if err != nil {
		return err
	}

	if family.AdminID == user.ID {
		return apperr.Validation("Admin cannot leave family. Transfer admin rights first.")
	}

	if err := s.repo.RemoveMember(ctx, family.ID, user.ID); err != nil {
		return apperr.Server("Server error leaving family", err)
	}
	if err := s.userRepo.SetFamily(ctx, user.ID, primitive.NilObjectID, models.RoleMember); err != nil {
		return apperr.Server("Server error leaving family", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User left family")
	return nil
}

// RemoveMember ejects a member, admin only. The admin cannot remove
// themselves.
func (s *FamilyService) RemoveMember(ctx context.Context, familyID primitive.ObjectID, memberID string) error {
	targetID, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return apperr.Validation("Invalid member ID")
	}

	family, err := s.GetFamily(ctx, familyID)
	if err != nil {
		return err
	}

	if family.AdminID == targetID {
		return apperr.Validation("Cannot remove family admin")
	}
	if !family.HasMember(targetID) {
		return apperr.NotFound("Member not found in this family")
	}

	if err := s.repo.RemoveMember(ctx, family.ID, targetID); err != nil {
		return apperr.Server("Server error removing member", err)
	}
	if err := s.userRepo.SetFamily(ctx, targetID, primitive.NilObjectID, models.RoleMember); err != nil {
		return apperr.Server("Server error removing member", err)
	}

	logrus.WithFields(logrus.Fields{
		"familyID": family.ID.Hex(),
		"memberID": targetID.Hex(),
	}).Info("Member removed from family")
	return nil
}
