package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	jwtutil "github.com/familygrove/familygrove/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// UserResolver resolves a token subject to a live user record.
type UserResolver interface {
	GetActiveUser(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware verifies the bearer token and resolves it to a live user,
// which is attached to the request context. Requests with missing, garbled
// or expired credentials are rejected before the handler runs.
func AuthMiddleware(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				httputil.RespondError(w, apperr.Authentication("Access token required"))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtutil.ParseToken(tokenString, secret)
			if err != nil {
				logrus.WithError(err).Warn("Token verification failed")
				httputil.RespondError(w, apperr.Authentication("Invalid or expired token"))
				return
			}

			// The token subject must still exist and be active.
			user, err := users.GetActiveUser(r.Context(), claims.UserID)
			if err != nil {
				logrus.WithField("userID", claims.UserID).Warn("Token subject not resolvable")
				httputil.RespondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated user attached by
// AuthMiddleware, or nil outside an authenticated request.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithUser returns a context carrying user; tests use this to exercise
// gated handlers directly.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireFamily rejects identities that are not part of a family. Must run
// after AuthMiddleware.
func RequireFamily(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.FamilyID.IsZero() {
			httputil.RespondError(w, apperr.Authorization("You must be part of a family to access this resource"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects identities whose role is not admin. Must run after
// AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			httputil.RespondError(w, apperr.Authorization("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
