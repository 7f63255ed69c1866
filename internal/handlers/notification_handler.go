package handlers

import (
	"net/http"

	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/httputil"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
)

// NotificationHandler handles in-app notification endpoints.
type NotificationHandler struct {
	Service *services.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GetNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	notifications, err := h.Service.GetNotifications(r.Context(), user.ID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"notifications": notifications})
}

// MarkReadHandler handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	notificationID := mux.Vars(r)["id"]

	if err := h.Service.MarkRead(r.Context(), user.ID, notificationID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Notification marked as read",
	})
}
