package middleware

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LastSeenToucher updates a user's last-seen timestamp.
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, userID primitive.ObjectID) error
}

// UpdateLastSeenMiddleware touches the authenticated user's last-seen
// timestamp on every request, best effort. Must run after AuthMiddleware.
func UpdateLastSeenMiddleware(users LastSeenToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r.Context()); user != nil {
				_ = users.TouchLastSeen(r.Context(), user.ID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
