package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/pkg/apperr"
	jwtutil "github.com/familygrove/familygrove/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type stubResolver struct {
	user *models.User
}

func (s *stubResolver) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID.Hex() != id {
		return nil, apperr.Authentication("Invalid or expired token")
	}
	return s.user, nil
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, GetUserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := AuthMiddleware(testSecret, &stubResolver{})(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestAuthMiddlewareGarbledToken(t *testing.T) {
	handler := AuthMiddleware(testSecret, &stubResolver{})(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMissingBearerPrefix(t *testing.T) {
	handler := AuthMiddleware(testSecret, &stubResolver{})(okHandler(t))

	token, err := jwtutil.GenerateToken(primitive.NewObjectID().Hex(), "", "member", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareResolvesLiveUser(t *testing.T) {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		FamilyID: primitive.NewObjectID(),
		Role:     models.RoleMember,
		IsActive: true,
	}
	handler := AuthMiddleware(testSecret, &stubResolver{user: user})(okHandler(t))

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.FamilyID.Hex(), user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareRejectsDeactivatedSubject(t *testing.T) {
	// Token is valid but the resolver no longer finds the user.
	userID := primitive.NewObjectID()
	handler := AuthMiddleware(testSecret, &stubResolver{})(okHandler(t))

	token, err := jwtutil.GenerateToken(userID.Hex(), "", "member", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireFamily(t *testing.T) {
	handler := RequireFamily(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No family yet.
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleMember}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// With a family.
	user.FamilyID = primitive.NewObjectID()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	member := &models.User{ID: primitive.NewObjectID(), FamilyID: primitive.NewObjectID(), Role: models.RoleMember}
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = req.WithContext(WithUser(req.Context(), member))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &models.User{ID: primitive.NewObjectID(), FamilyID: primitive.NewObjectID(), Role: models.RoleAdmin}
	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req = req.WithContext(WithUser(req.Context(), admin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
