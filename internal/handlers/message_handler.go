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
)

// MessageHandler handles the family group chat endpoints.
type MessageHandler struct {
	Service *services.MessageService
}

// NewMessageHandler creates a new instance of MessageHandler.
func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{Service: service}
}

// GetMessagesHandler handles GET /api/messages. Fetching a page also marks
// its unread messages as read for the caller.
func (h *MessageHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	page, limit := pageParams(r)

	messages, err := h.Service.GetMessages(r.Context(), user, page, limit)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"messages": messages})
}

type sendMessageRequest struct {
	Content     models.MessageContent `json:"content"`
	MessageType string                `json:"messageType"`
}

// SendMessageHandler handles POST /api/messages.
func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode message request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	message, err := h.Service.SendMessage(r.Context(), user, req.Content, req.MessageType)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":    user.ID.Hex(),
		"messageID": message.ID.Hex(),
	}).Info("Message sent")

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// UnreadCountHandler handles GET /api/messages/unread-count.
func (h *MessageHandler) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	count, err := h.Service.UnreadCount(r.Context(), user)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"unreadCount": count})
}

// DeleteMessageHandler handles DELETE /api/messages/{id}. Only the sender
// may delete a message.
func (h *MessageHandler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	messageID := mux.Vars(r)["id"]

	if err := h.Service.DeleteMessage(r.Context(), user, messageID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Message deleted successfully",
	})
}
