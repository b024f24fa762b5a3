package appwrite

import (
	"context"
	"net/http"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Create registers a new account (POST /account).
func (c *Client) Create(ctx context.Context, id, email, password, name string) (*simpleblog.User, error) {
	body := map[string]any{
		"userId":   id,
		"email":    email,
		"password": password,
	}
	if name != "" {
		body["name"] = name
	}
	var user simpleblog.User
	err := c.do(ctx, request{
		op:     "account.create",
		method: http.MethodPost,
		path:   []string{"account"},
		body:   body,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateEmailPasswordSession logs in (POST /account/sessions/email). The
// session cookie set by the platform is kept by the client.
func (c *Client) CreateEmailPasswordSession(ctx context.Context, email, password string) (*simpleblog.Session, error) {
	var session simpleblog.Session
	err := c.do(ctx, request{
		op:     "account.createEmailPasswordSession",
		method: http.MethodPost,
		path:   []string{"account", "sessions", "email"},
		body:   map[string]any{"email": email, "password": password},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Get returns the current account (GET /account).
func (c *Client) Get(ctx context.Context) (*simpleblog.User, error) {
	var user simpleblog.User
	err := c.do(ctx, request{
		op:     "account.get",
		method: http.MethodGet,
		path:   []string{"account"},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteSessions logs out everywhere (DELETE /account/sessions).
func (c *Client) DeleteSessions(ctx context.Context) error {
	err := c.do(ctx, request{
		op:     "account.deleteSessions",
		method: http.MethodDelete,
		path:   []string{"account", "sessions"},
	}, nil)
	if err != nil {
		return err
	}
	c.setFallback("")
	return nil
}
