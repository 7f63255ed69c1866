package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// EventHandler handles the family calendar endpoints.
type EventHandler struct {
	Service *services.EventService
}

// NewEventHandler creates a new instance of EventHandler.
func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{Service: service}
}

// GetEventsHandler handles GET /api/events. Pass ?upcoming=true to filter
// out events whose date has already passed.
func (h *EventHandler) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	upcomingOnly := r.URL.Query().Get("upcoming") == "true"

	events, err := h.Service.GetEvents(r.Context(), user.FamilyID, upcomingOnly)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"events": events})
}

type eventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	EventDate   string          `json:"eventDate"`
	EventTime   string          `json:"eventTime"`
	Location    models.Location `json:"location"`
	EventType   string          `json:"eventType"`
	Images      []string        `json:"images"`
}

func parseEventDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// CreateEventHandler handles POST /api/events.
func (h *EventHandler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode event request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	if req.EventDate == "" {
		httputil.RespondError(w, apperr.Validation("Event date is required",
			apperr.FieldError{Field: "eventDate", Message: "cannot be empty"}))
		return
	}
	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid event date",
			apperr.FieldError{Field: "eventDate", Message: "must be RFC 3339 or YYYY-MM-DD"}))
		return
	}

	event, err := h.Service.CreateEvent(r.Context(), user, services.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		EventTime:   req.EventTime,
		Location:    req.Location,
		Type:        req.EventType,
		Images:      req.Images,
	})
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":  user.ID.Hex(),
		"eventID": event.ID.Hex(),
	}).Info("Event created")

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Event created successfully",
		"event":   event,
	})
}

// GetEventHandler handles GET /api/events/{id}.
func (h *EventHandler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	event, err := h.Service.GetEvent(r.Context(), user.FamilyID, eventID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"event": event})
}

// RSVPHandler handles POST /api/events/{id}/rsvp.
func (h *EventHandler) RSVPHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	status, counts, err := h.Service.SetRSVP(r.Context(), user, eventID, req.Status)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":  user.ID.Hex(),
		"eventID": eventID,
		"status":  status,
	}).Info("RSVP recorded")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message":        "RSVP recorded successfully",
		"status":         status,
		"attendeeCounts": counts,
	})
}

type eventUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	EventDate   *string          `json:"eventDate"`
	EventTime   *string          `json:"eventTime"`
	Location    *models.Location `json:"location"`
	EventType   *string          `json:"eventType"`
	Images      []string         `json:"images"`
}

// UpdateEventHandler handles PUT /api/events/{id}. Only the creator or an
// admin may update.
func (h *EventHandler) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	var req eventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	update := services.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		EventTime:   req.EventTime,
		Location:    req.Location,
		Type:        req.EventType,
		Images:      req.Images,
	}
	if req.EventDate != nil {
		eventDate, err := parseEventDate(*req.EventDate)
		if err != nil {
			httputil.RespondError(w, apperr.Validation("Invalid event date",
				apperr.FieldError{Field: "eventDate", Message: "must be RFC 3339 or YYYY-MM-DD"}))
			return
		}
		update.EventDate = &eventDate
	}

	event, err := h.Service.UpdateEvent(r.Context(), user, eventID, update)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// DeleteEventHandler handles DELETE /api/events/{id}.
func (h *EventHandler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	if err := h.Service.DeleteEvent(r.Context(), user, eventID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":  user.ID.Hex(),
		"eventID": eventID,
	}).Info("Event deleted")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Event deleted successfully",
	})
}
