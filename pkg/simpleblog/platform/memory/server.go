// Package memory is an in-process stand-in for the backend platform. It
// reproduces the platform behaviors the facade relies on: generated ids,
// conflicts on duplicate ids, updates that never create, unauthorized
// account reads without a session, and query evaluation.
package memory

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const (
	defaultListLimit  = 25
	minPasswordLength = 8
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,35}$`)

type account struct {
	user         simpleblog.User
	passwordHash []byte
}

type storedFile struct {
	meta simpleblog.File
	data []byte
}

// Server holds the platform state shared by every Client.
type Server struct {
	mu        sync.RWMutex
	endpoint  *url.URL
	projectID string
	now       func() time.Time

	accounts  map[string]*account                        // user id -> account
	byEmail   map[string]string                          // email -> user id
	sessions  map[string]*simpleblog.Session             // session id -> session
	documents map[string]map[string]*simpleblog.Document // database/collection -> id -> document
	files     map[string]map[string]*storedFile          // bucket -> id -> file
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates an empty platform reachable at endpoint for projectID.
// endpoint is only used to derive preview URLs.
func NewServer(endpoint *url.URL, projectID string, opts ...Option) *Server {
	s := &Server{
		endpoint:  endpoint,
		projectID: projectID,
		now:       time.Now,
		accounts:  make(map[string]*account),
		byEmail:   make(map[string]string),
		sessions:  make(map[string]*simpleblog.Session),
		documents: make(map[string]map[string]*simpleblog.Document),
		files:     make(map[string]map[string]*storedFile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient returns a new handle with its own session slot, the way each
// platform SDK client carries its own session cookie.
func (s *Server) NewClient() *Client {
	return &Client{server: s}
}

func (s *Server) timestamp() string {
	return simpleblog.Timestamp(s.now())
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// resolveID returns a generated id for UniqueID, or validates a caller id.
func resolveID(op, id string) (string, error) {
	if id == simpleblog.UniqueID {
		return newID(), nil
	}
	if !idPattern.MatchString(id) {
		return "", simpleblog.NewPlatformError(op, http.StatusBadRequest, "general_argument_invalid",
			"Invalid id: must contain at most 36 chars of a-z, A-Z, 0-9, period, hyphen, underscore and cannot start with a special char")
	}
	return id, nil
}

func collectionKey(databaseID, collectionID string) string {
	return databaseID + "/" + collectionID
}
