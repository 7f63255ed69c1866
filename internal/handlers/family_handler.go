package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// FamilyHandler handles family membership endpoints.
type FamilyHandler struct {
	Service *services.FamilyService
}

// NewFamilyHandler creates a new instance of FamilyHandler.
func NewFamilyHandler(service *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{Service: service}
}

// GetFamilyHandler handles GET /api/family.
func (h *FamilyHandler) GetFamilyHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	view, err := h.Service.GetFamilyView(r.Context(), user.FamilyID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"family": view})
}

// CreateFamilyHandler handles POST /api/family.
func (h *FamilyHandler) CreateFamilyHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	family, err := h.Service.CreateFamily(r.Context(), user, req.Name, req.Description)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":   user.ID.Hex(),
		"familyID": family.ID.Hex(),
	}).Info("Family created")

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Family created successfully",
		"family":  family,
	})
}

// UpdateFamilyHandler handles PUT /api/family. Admin only.
func (h *FamilyHandler) UpdateFamilyHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	family, err := h.Service.UpdateFamily(r.Context(), user.FamilyID, req.Name, req.Description)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Family updated successfully",
		"family":  family,
	})
}

// JoinFamilyHandler handles POST /api/family/join.
func (h *FamilyHandler) JoinFamilyHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		FamilyCode string `json:"familyCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	if req.FamilyCode == "" {
		httputil.RespondError(w, apperr.Validation("Family code is required",
			apperr.FieldError{Field: "familyCode", Message: "cannot be empty"}))
		return
	}

	family, err := h.Service.JoinFamily(r.Context(), user, req.FamilyCode)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":   user.ID.Hex(),
		"familyID": family.ID.Hex(),
	}).Info("User joined family")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Joined family successfully",
		"family":  family.Summary(),
	})
}

// LeaveFamilyHandler handles POST /api/family/leave.
func (h *FamilyHandler) LeaveFamilyHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	if err := h.Service.LeaveFamily(r.Context(), user); err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User left family")
	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Left family successfully",
	})
}

// RemoveMemberHandler handles DELETE /api/family/member/{id}. Admin only.
func (h *FamilyHandler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	memberID := mux.Vars(r)["id"]

	if err := h.Service.RemoveMember(r.Context(), user.FamilyID, memberID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"adminID":  user.ID.Hex(),
		"memberID": memberID,
	}).Info("Member removed from family")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Member removed successfully",
	})
}
