package memory

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tendant/simple-blog/pkg/simpleblog"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 365 * 24 * time.Hour

// Create registers a new account.
func (c *Client) Create(ctx context.Context, id, email, password, name string) (*simpleblog.User, error) {
	const op = "account.create"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "general_argument_invalid",
			"Invalid `email` param: Value must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "general_argument_invalid",
			"Invalid `password` param: Password must be at least 8 characters")
	}
	userID, err := resolveID(op, id)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "general_argument_invalid", err.Error())
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	if _, exists := s.byEmail[email]; exists {
		return nil, simpleblog.NewPlatformError(op, http.StatusConflict, "user_already_exists",
			"A user with the same id, email, or phone already exists in this project.")
	}
	if _, exists := s.accounts[userID]; exists {
		return nil, simpleblog.NewPlatformError(op, http.StatusConflict, "user_already_exists",
			"A user with the same id, email, or phone already exists in this project.")
	}

	now := s.timestamp()
	acct := &account{
		user: simpleblog.User{
			ID:           userID,
			CreatedAt:    now,
			UpdatedAt:    now,
			Name:         name,
			Email:        email,
			Registration: now,
			Status:       true,
			Prefs:        map[string]any{},
		},
		passwordHash: hash,
	}
	s.accounts[userID] = acct
	s.byEmail[email] = userID

	user := acct.user
	return &user, nil
}

// CreateEmailPasswordSession opens a session and stores it on this handle.
func (c *Client) CreateEmailPasswordSession(ctx context.Context, email, password string) (*simpleblog.Session, error) {
	const op = "account.createEmailPasswordSession"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if current := c.currentSession(); current != "" {
		if _, ok := s.sessions[current]; ok {
			return nil, simpleblog.NewPlatformError(op, http.StatusUnauthorized, "user_session_already_exists",
				"Creation of a session is prohibited when a session is active.")
		}
	}

	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, invalidCredentials(op)
	}
	acct := s.accounts[userID]
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return nil, invalidCredentials(op)
	}

	now := s.now()
	session := &simpleblog.Session{
		ID:        newID(),
		CreatedAt: simpleblog.Timestamp(now),
		UserID:    userID,
		Expire:    simpleblog.Timestamp(now.Add(sessionTTL)),
		Provider:  "email",
		Current:   true,
	}
	s.sessions[session.ID] = session
	c.setSession(session.ID)

	out := *session
	return &out, nil
}

// Get returns the account of the handle's session.
func (c *Client) Get(ctx context.Context) (*simpleblog.User, error) {
	const op = "account.get"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := c.server
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, err := c.sessionAccount(op)
	if err != nil {
		return nil, err
	}
	user := acct.user
	return &user, nil
}

// DeleteSessions removes every session of the handle's account, including
// sessions opened by other handles.
func (c *Client) DeleteSessions(ctx context.Context) error {
	const op = "account.deleteSessions"
	if err := ctx.Err(); err != nil {
		return err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := c.sessionAccount(op)
	if err != nil {
		return err
	}
	for id, session := range s.sessions {
		if session.UserID == acct.user.ID {
			delete(s.sessions, id)
		}
	}
	c.setSession("")
	return nil
}

// sessionAccount resolves the handle's session. Callers hold s.mu.
func (c *Client) sessionAccount(op string) (*account, error) {
	s := c.server
	session, ok := s.sessions[c.currentSession()]
	if !ok {
		return nil, simpleblog.NewPlatformError(op, http.StatusUnauthorized, "general_unauthorized_scope",
			"User (role: guests) missing scope (account)")
	}
	acct, ok := s.accounts[session.UserID]
	if !ok {
		return nil, simpleblog.NewPlatformError(op, http.StatusUnauthorized, "user_not_found",
			"User with the requested ID could not be found.")
	}
	return acct, nil
}

func invalidCredentials(op string) error {
	return simpleblog.NewPlatformError(op, http.StatusUnauthorized, "user_invalid_credentials",
		"Invalid credentials. Please check the email and password.")
}
