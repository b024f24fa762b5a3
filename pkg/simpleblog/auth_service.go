package simpleblog

import (
	"context"
	"errors"
)

// CreateAccountRequest contains the signup fields.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest contains email/password credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService translates account lifecycle intents into platform calls.
//
// Failures are never logged or recovered here: every error reaches the
// caller. Input validation is left to the platform.
type AuthService struct {
	account AccountAPI
}

// NewAuthService binds the service to one session-capable account handle.
// The handle is reused for every call.
func NewAuthService(account AccountAPI) (*AuthService, error) {
	if account == nil {
		return nil, errors.New("account api is required")
	}
	return &AuthService{account: account}, nil
}

// CreateAccount registers a new account with a platform-generated id and
// logs it in, returning the login session.
//
// If the platform answers the creation with an empty account, (nil, nil) is
// returned and no login is attempted.
func (s *AuthService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Session, error) {
	user, err := s.account.Create(ctx, UniqueID, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, &AuthError{Op: "create_account", Err: err}
	}
	if user == nil || user.ID == "" {
		return nil, nil
	}
	return s.Login(ctx, LoginRequest{Email: req.Email, Password: req.Password})
}

// Login opens an email/password session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	session, err := s.account.CreateEmailPasswordSession(ctx, req.Email, req.Password)
	if err != nil {
		return nil, &AuthError{Op: "login", Err: err}
	}
	return session, nil
}

// GetUser returns the account of the current session.
//
// When there is no session the result is (nil, ErrNoSession). Any other
// failure is returned as is.
func (s *AuthService) GetUser(ctx context.Context) (*User, error) {
	user, err := s.account.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, ErrNoSession
		}
		return nil, &AuthError{Op: "get_user", Err: err}
	}
	return user, nil
}

// Logout deletes every session of the current account, on every device.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.account.DeleteSessions(ctx); err != nil {
		return &AuthError{Op: "logout", Err: err}
	}
	return nil
}
