package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/familygrove/familygrove/internal/config"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	jwtutil "github.com/familygrove/familygrove/pkg/jwt"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	Service  *services.UserService
	Config   *config.Config
	Validate *validator.Validate
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(service *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Service:  service,
		Config:   cfg,
		Validate: validator.New(),
	}
}

type registerRequest struct {
	Mobile      string `json:"mobile" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty"`
	Gender      string `json:"gender" validate:"omitempty"`
	FamilyCode  string `json:"familyCode" validate:"omitempty"`
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterHandler called")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	if err := h.Validate.Struct(req); err != nil {
		httputil.RespondError(w, validationError(err))
		return
	}

	input := services.RegisterInput{
		Mobile:     req.Mobile,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Gender:     req.Gender,
		FamilyCode: req.FamilyCode,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httputil.RespondError(w, apperr.Validation("Invalid date of birth",
				apperr.FieldError{Field: "dateOfBirth", Message: "must be formatted YYYY-MM-DD"}))
			return
		}
		input.DateOfBirth = &dob
	}

	result, err := h.Service.RegisterUser(r.Context(), input)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(
		result.User.ID.Hex(), result.Family.ID.Hex(), result.User.Role,
		h.Config.JWTSecret, h.Config.TokenExpiry,
	)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		httputil.RespondError(w, apperr.Server("Failed to generate token", err))
		return
	}

	log.WithField("userID", result.User.ID.Hex()).Info("User registered successfully")
	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "User registered successfully",
		"token":   token,
		"user":    result.User,
		"family":  result.Family.Summary(),
	})
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginHandler called")

	var credentials struct {
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	if credentials.Password == "" {
		httputil.RespondError(w, apperr.Validation("Password is required",
			apperr.FieldError{Field: "password", Message: "cannot be empty"}))
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Mobile, credentials.Password)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(
		user.ID.Hex(), user.FamilyIDHex(), user.Role,
		h.Config.JWTSecret, h.Config.TokenExpiry,
	)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		httputil.RespondError(w, apperr.Server("Failed to generate token", err))
		return
	}

	_, family, _ := h.Service.GetProfile(r.Context(), user)

	response := httputil.Fields{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	}
	if family != nil {
		response["family"] = family.Summary()
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	httputil.RespondJSON(w, http.StatusOK, response)
}

// ProfileHandler handles GET /api/auth/profile.
func (h *AuthHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		httputil.RespondError(w, apperr.Authentication("Access token required"))
		return
	}

	_, family, err := h.Service.GetProfile(r.Context(), user)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	response := httputil.Fields{"user": user}
	if family != nil {
		response["family"] = family.Summary()
	}
	httputil.RespondJSON(w, http.StatusOK, response)
}

type profileUpdateRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          *string `json:"email" validate:"omitempty"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Gender         *string `json:"gender"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateProfileHandler handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		httputil.RespondError(w, apperr.Authentication("Access token required"))
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode profile update request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	update := services.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Gender:         req.Gender,
		ProfilePicture: req.ProfilePicture,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			httputil.RespondError(w, apperr.Validation("Invalid date of birth",
				apperr.FieldError{Field: "dateOfBirth", Message: "must be formatted YYYY-MM-DD"}))
			return
		}
		update.DateOfBirth = &dob
	}

	updated, err := h.Service.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("Profile updated")
	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// validationError converts validator.ValidationErrors into the per-field
// error list of the failure envelope.
func validationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("Validation errors")
	}

	fields := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: "failed on the '" + fe.Tag() + "' rule",
		})
	}
	return apperr.Validation("Validation errors", fields...)
}
