package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/httputil"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// PostHandler handles the family feed endpoints.
type PostHandler struct {
	Service *services.PostService
}

// NewPostHandler creates a new instance of PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

// pageParams reads page and limit from the query string, clamping both to
// sane values.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

// GetPostsHandler handles GET /api/posts.
func (h *PostHandler) GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	page, limit := pageParams(r)

	posts, pagination, err := h.Service.GetPosts(r.Context(), user.FamilyID, page, limit)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"posts":      posts,
		"pagination": pagination,
	})
}

type createPostRequest struct {
	Content models.PostContent `json:"content"`
	Privacy string             `json:"privacy"`
}

// CreatePostHandler handles POST /api/posts.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode post request")
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	post, err := h.Service.CreatePost(r.Context(), user, req.Content, req.Privacy)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID": user.ID.Hex(),
		"postID": post.ID.Hex(),
	}).Info("Post created")

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPostHandler handles GET /api/posts/{id}.
func (h *PostHandler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	postID := mux.Vars(r)["id"]

	post, err := h.Service.GetPost(r.Context(), user.FamilyID, postID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{"post": post})
}

// LikePostHandler handles POST /api/posts/{id}/like. The same endpoint
// both likes and unlikes, depending on the caller's current state.
func (h *PostHandler) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	postID := mux.Vars(r)["id"]

	likesCount, isLiked, err := h.Service.ToggleLike(r.Context(), user, postID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	message := "Post unliked"
	if isLiked {
		message = "Post liked"
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message":    message,
		"likesCount": likesCount,
		"isLiked":    isLiked,
	})
}

// CommentPostHandler handles POST /api/posts/{id}/comment.
func (h *PostHandler) CommentPostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	postID := mux.Vars(r)["id"]

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, apperr.Validation("Invalid request payload"))
		return
	}
	defer r.Body.Close()

	comment, err := h.Service.AddComment(r.Context(), user, postID, req.Text)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, httputil.Fields{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DeletePostHandler handles DELETE /api/posts/{id}.
func (h *PostHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	postID := mux.Vars(r)["id"]

	if err := h.Service.DeletePost(r.Context(), user, postID); err != nil {
		httputil.RespondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID": user.ID.Hex(),
		"postID": postID,
	}).Info("Post deleted")

	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message": "Post deleted successfully",
	})
}
