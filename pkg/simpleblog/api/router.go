package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Mount registers the account, post and file routes on r.
func Mount(r chi.Router, auth *simpleblog.AuthService, content *simpleblog.ContentService, logger *slog.Logger) {
	r.Mount("/account", NewAccountHandler(auth, logger).Routes())
	r.Mount("/posts", NewPostHandler(content, auth, logger).Routes())
	r.Mount("/files", NewFileHandler(content, logger).Routes())
}

// NewRouter returns a standalone router with request ids and panic recovery.
func NewRouter(auth *simpleblog.AuthService, content *simpleblog.ContentService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	Mount(r, auth, content, logger)
	return r
}
