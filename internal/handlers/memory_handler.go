package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryHandler handles the shared family album endpoints.
type MemoryHandler struct {
	Service *services.MemoryService
}

// NewMemoryHandler creates a new instance of MemoryHandler.
func NewMemoryHandler(service *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{Service: service}
}

// GetMemoriesHandler handles GET /api/memories.
func (h *MemoryHandler) GetMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	page, limit := pageParams(r)

	memories, pagination, err := h.Service.GetMemories(r.Context(), user.FamilyID, page, limit)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"memories":   memories,
		"pagination": pagination,
	})
}

type memoryRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	MemoryDate  string               `json:"memoryDate"`
	Media       []models.MemoryMedia `json:"media"`
	Tags        []string             `json:"tags"`
	Location    models.Location      `json:"location"`
	Privacy     string               `json:"privacy"`
}

// CreateMemoryHandler handles POST /api/memories.
func (h *MemoryHandler) CreateMemoryHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode memory request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	if req.MemoryDate == "" {
		httputil.RespondError(w, apperr.Validation("Memory date is required",
			apperr.FieldError{Field: "memoryDate", Message: "cannot be empty"}))
		return
	}
	memoryDate, err := parseEventDate(req.MemoryDate)
	if err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid memory date",
			apperr.FieldError{Field: "memoryDate", Message: "must be RFC 3339 or YYYY-MM-DD"}))
		return
	}

	tags := make([]primitive.ObjectID, 0, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httputil.RespondError(w, apperr.Validation("Invalid tagged user id",
				apperr.FieldError{Field: "tags", Message: "each tag must be a valid user id"}))
			return
		}
		tags = append(tags, id)
	}

	memory, err := h.Service.CreateMemory(r.Context(), user, services.MemoryInput{
		Title:       req.Title,
		Description: req.Description,
		MemoryDate:  memoryDate,
		Media:       req.Media,
		Tags:        tags,
		Location:    req.Location,
		Privacy:     req.Privacy,
	})
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":   user.ID.Hex(),
		"memoryID": memory.ID.Hex(),
	}).Info("Memory created")

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Memory created successfully",
		"memory":  memory,
	})
}

// GetMemoryHandler handles GET /api/memories/{id}.
func (h *MemoryHandler) GetMemoryHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	memoryID := mux.Vars(r)["id"]

	memory, err := h.Service.GetMemory(r.Context(), user.FamilyID, memoryID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"memory": memory})
}

// LikeMemoryHandler handles POST /api/memories/{id}/like with the same
// toggle semantics as post likes.
func (h *MemoryHandler) LikeMemoryHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	memoryID := mux.Vars(r)["id"]

	likesCount, isLiked, err := h.Service.ToggleLike(r.Context(), user, memoryID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	message := "Memory unliked"
	if isLiked {
		message = "Memory liked"
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message":    message,
		"likesCount": likesCount,
		"isLiked":    isLiked,
	})
}

// CommentMemoryHandler handles POST /api/memories/{id}/comment.
func (h *MemoryHandler) CommentMemoryHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	memoryID := mux.Vars(r)["id"]

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	comment, err := h.Service.AddComment(r.Context(), user, memoryID, req.Text)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DeleteMemoryHandler handles DELETE /api/memories/{id}.
func (h *MemoryHandler) DeleteMemoryHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	memoryID := mux.Vars(r)["id"]

	if err := h.Service.DeleteMemory(r.Context(), user, memoryID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":   user.ID.Hex(),
		"memoryID": memoryID,
	}).Info("Memory deleted")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Memory deleted successfully",
	})
}
