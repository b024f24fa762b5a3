package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const (
	maxPostsPerRequest = 100
	statusAll          = "all"
)

// PostHandler handles HTTP requests for blog posts
type PostHandler struct {
	content *simpleblog.ContentService
	auth    *simpleblog.AuthService
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler. auth resolves the author of
// posts created without a user id and may be nil.
func NewPostHandler(content *simpleblog.ContentService, auth *simpleblog.AuthService, logger *slog.Logger) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{content: content, auth: auth, logger: logger}
}

// Routes returns the routes for posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPosts)
	r.Post("/", h.CreatePost)
	r.Get("/{slug}", h.GetPost)
	r.Patch("/{slug}", h.UpdatePost)
	r.Delete("/{slug}", h.DeletePost)
	return r
}

// PostListResponse is a page of posts
type PostListResponse struct {
	Total int               `json:"total"`
	Posts []simpleblog.Post `json:"posts"`
}

// ListPosts lists posts. Without a status parameter only active posts are
// returned; status=all lifts the filter and status=a,b matches any of the
// given states.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	queries, err := listQueries(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.content.GetPost(r.Context(), queries...)
	list, ok := res.Get()
	if !ok {
		h.unavailable(w, r, "Failed to list posts")
		return
	}

	render.JSON(w, r, PostListResponse{Total: list.Total, Posts: simpleblog.PostsFromList(list)})
}

func listQueries(r *http.Request) ([]simpleblog.Query, error) {
	params := r.URL.Query()

	var queries []simpleblog.Query
	switch status := params.Get("status"); status {
	case "":
		queries = simpleblog.DefaultPostQueries()
	case statusAll:
	default:
		var values []any
		for _, s := range strings.Split(status, ",") {
			if s = strings.TrimSpace(s); s != "" {
				values = append(values, s)
			}
		}
		queries = append(queries, simpleblog.Equal(simpleblog.AttrStatus, values...))
	}

	if q := params.Get("q"); q != "" {
		queries = append(queries, simpleblog.Search(simpleblog.AttrTitle, q))
	}
	if v := params.Get("user_id"); v != "" {
		queries = append(queries, simpleblog.Equal(simpleblog.AttrUserID, v))
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPostsPerRequest {
			return nil, errors.New("limit must be between 1 and " + strconv.Itoa(maxPostsPerRequest))
		}
		queries = append(queries, simpleblog.Limit(n))
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.New("offset must be a non-negative integer")
		}
		queries = append(queries, simpleblog.Offset(n))
	}
	return append(queries, simpleblog.OrderDesc("$createdAt")), nil
}

// GetPost returns a single post. When the read fails, a listing by id
// separates a missing post (404) from an unreachable platform (502).
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	doc, ok := h.content.GetPostBySlug(r.Context(), slug).Get()
	if !ok {
		list, listed := h.content.GetPost(r.Context(), simpleblog.Equal("$id", slug), simpleblog.Limit(1)).Get()
		switch {
		case !listed:
			h.unavailable(w, r, "Failed to get post")
			return
		case len(list.Documents) == 0:
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		doc = list.Documents[0]
	}
	render.JSON(w, r, simpleblog.PostFromDocument(doc))
}

// CreatePost creates a post. When user_id is omitted the current account
// becomes the author.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req simpleblog.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Slug == "" {
		http.Error(w, "Slug is required", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = simpleblog.PostStatusActive
	}

	if req.UserID == "" && h.auth != nil {
		user, err := h.auth.GetUser(r.Context())
		if errors.Is(err, simpleblog.ErrNoSession) {
			http.Error(w, "No active session", http.StatusUnauthorized)
			return
		}
		if err != nil {
			h.logger.Error("Failed to resolve author", "error", err, "request_id", middleware.GetReqID(r.Context()))
			http.Error(w, "Failed to resolve author", http.StatusBadGateway)
			return
		}
		req.UserID = user.ID
	}

	doc, ok := h.content.CreatePost(r.Context(), req).Get()
	if !ok {
		h.unavailable(w, r, "Failed to create post")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, simpleblog.PostFromDocument(doc))
}

// UpdatePost applies a partial update
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req simpleblog.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, ok := h.content.UpdatePost(r.Context(), slug, req).Get()
	if !ok {
		h.unavailable(w, r, "Failed to update post")
		return
	}
	render.JSON(w, r, simpleblog.PostFromDocument(doc))
}

// DeletePost deletes a post
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if !h.content.DeletePost(r.Context(), slug) {
		h.unavailable(w, r, "Failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unavailable answers a failed content operation. The cause has already
// been logged by the content service and is not known here.
func (h *PostHandler) unavailable(w http.ResponseWriter, r *http.Request, msg string) {
	h.logger.Warn(msg, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	http.Error(w, msg, http.StatusBadGateway)
}
