package memory

import (
	"sync"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Client is one handle on a Server. It implements the AccountAPI,
// DocumentStore and FileStore interfaces.
type Client struct {
	server *Server

	mu        sync.Mutex
	sessionID string
}

var (
	_ simpleblog.AccountAPI    = (*Client)(nil)
	_ simpleblog.DocumentStore = (*Client)(nil)
	_ simpleblog.FileStore     = (*Client)(nil)
)

func (c *Client) currentSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) setSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}
