package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/phone"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates registration, login and profile logic.
type UserService struct {
	repo          *repository.UserRepository
	familyService *FamilyService
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, familyService *FamilyService) *UserService {
	return &UserService{
		repo:          repo,
		familyService: familyService,
	}
}

// RegisterInput is the validated payload of POST /auth/register.
type RegisterInput struct {
	Mobile      string
	Password    string
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth *time.Time
	Gender      string
	FamilyCode  string
}

// RegisterResult bundles what the register endpoint returns.
type RegisterResult struct {
	User   *models.User
	Family *models.Family
}

// RegisterUser normalizes the mobile number, creates the user and binds it
// to a family: by join code when one was supplied, otherwise to the single
// shared family, creating it for the very first registrant.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	logrus.Info("Registering new user")

	normalized, ok := phone.NormalizeAndValidate(input.Mobile)
	if !ok {
		return nil, apperr.Validation("Please enter a valid mobile number",
			apperr.FieldError{Field: "mobile", Message: "must be a 10-digit number starting with 6-9"})
	}

	if !models.ValidGender(input.Gender) {
		return nil, apperr.Validation("Invalid gender value",
			apperr.FieldError{Field: "gender", Message: "must be one of male, female, other"})
	}

	// The unique index is the real guard; this check keeps the common case
	// on the friendly error path.
	if existing, _ := s.repo.GetUserByMobile(ctx, normalized); existing != nil {
		logrus.WithField("mobile", normalized).Warn("Mobile number already registered")
		return nil, apperr.Conflict("User with this mobile number already exists. Please try logging in instead.")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Server("Failed to process password", err)
	}

	user := &models.User{
		Mobile:         normalized,
		HashedPassword: string(hashedPwd),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		DateOfBirth:    input.DateOfBirth,
		Gender:         input.Gender,
		Role:           models.RoleMember,
		IsActive:       true,
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, apperr.Conflict("User with this mobile number already exists. Please try logging in instead.")
		}
		return nil, apperr.Server("Server error during registration", err)
	}

	family, role, err := s.familyService.BindRegistrant(ctx, createdUser.ID, input.FamilyCode)
	if err != nil {
		return nil, err
	}

	// Two separate writes; no compensating rollback (documented limitation).
	if err := s.repo.SetFamily(ctx, createdUser.ID, family.ID, role); err != nil {
		return nil, apperr.Server("Server error during registration", err)
	}
	createdUser.FamilyID = family.ID
	createdUser.Role = role

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return &RegisterResult{User: createdUser, Family: family}, nil
}

// AuthenticateUser verifies mobile and password and returns the user.
// The failure message never reveals whether the account exists.
func (s *UserService) AuthenticateUser(ctx context.Context, mobile, password string) (*models.User, error) {
	normalized, ok := phone.NormalizeAndValidate(mobile)
	if !ok {
		return nil, apperr.Validation("Please enter a valid mobile number",
			apperr.FieldError{Field: "mobile", Message: "must be a 10-digit number starting with 6-9"})
	}

	user, err := s.repo.GetActiveUserByMobile(ctx, normalized)
	if err != nil {
		logrus.WithField("mobile", normalized).Warn("Login attempt for unknown mobile")
		return nil, apperr.Authentication("Invalid mobile number or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Invalid password")
		return nil, apperr.Authentication("Invalid mobile number or password")
	}

	if err := s.repo.UpdateLastSeen(ctx, user.ID); err != nil {
		logrus.WithError(err).Warn("Failed to update last seen")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetActiveUser resolves a token subject to a live user record; the auth
// middleware depends on this.
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Authentication("Invalid token - user not found")
	}

	user, err := s.repo.GetActiveUserByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.Authentication("Invalid token - user not found")
		}
		return nil, apperr.Server("Server error resolving user", err)
	}
	return user, nil
}

// GetProfile returns the user together with their family projection.
func (s *UserService) GetProfile(ctx context.Context, user *models.User) (*models.User, *models.Family, error) {
	if user.FamilyID.IsZero() {
		return user, nil, nil
	}

	family, err := s.familyService.GetFamily(ctx, user.FamilyID)
	if err != nil {
		// A dangling family reference degrades to a family-less profile.
		logrus.WithField("userID", user.ID.Hex()).WithError(err).Warn("Profile family lookup failed")
		return user, nil, nil
	}
	return user, family, nil
}

// ProfileUpdate is the accepted partial update of PUT /auth/profile.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	DateOfBirth    *time.Time
	Gender         *string
	ProfilePicture *string
}

// UpdateProfile applies the provided fields to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input ProfileUpdate) (*models.User, error) {
	update := map[string]interface{}{}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, apperr.Validation("First name cannot be empty",
				apperr.FieldError{Field: "firstName", Message: "cannot be empty"})
		}
		update["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		if *input.LastName == "" {
			return nil, apperr.Validation("Last name cannot be empty",
				apperr.FieldError{Field: "lastName", Message: "cannot be empty"})
		}
		update["last_name"] = *input.LastName
	}
	if input.Email != nil {
		update["email"] = *input.Email
	}
	if input.DateOfBirth != nil {
		update["date_of_birth"] = *input.DateOfBirth
	}
	if input.Gender != nil {
		if !models.ValidGender(*input.Gender) {
			return nil, apperr.Validation("Invalid gender value",
				apperr.FieldError{Field: "gender", Message: "must be one of male, female, other"})
		}
		update["gender"] = *input.Gender
	}
	if input.ProfilePicture != nil {
		update["profile_picture"] = *input.ProfilePicture
	}

	if len(update) == 0 {
		return nil, apperr.Validation("No profile fields to update")
	}

	user, err := s.repo.UpdateUser(ctx, userID, update)
	if err != nil {
		return nil, apperr.Server("Server error updating profile", err)
	}

	logrus.WithField("userID", userID.Hex()).Info("Profile updated successfully")
	return user, nil
}

// TouchLastSeen updates the user's last-seen timestamp, best effort.
func (s *UserService) TouchLastSeen(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.UpdateLastSeen(ctx, userID)
}

func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate")
}
