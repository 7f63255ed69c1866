package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/sirupsen/logrus"
)

// Fields is the extra payload merged into a success envelope.
type Fields map[string]interface{}

// RespondJSON writes {"success": true, ...fields} with the given status.
func RespondJSON(w http.ResponseWriter, status int, fields Fields) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Failed to encode response body")
	}
}

// RespondError maps err onto the failure envelope
// {"success": false, "message": ..., "errors": [...]?}. Internal detail of
// server errors is logged, never returned.
func RespondError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeServer {
		logrus.WithError(appErr.Err).Error(appErr.Message)
	}

	body := map[string]interface{}{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status())
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		logrus.WithError(encodeErr).Error("Failed to encode error response")
	}
}
