package simpleblog

import (
	"errors"
	"fmt"
	"net/url"
)

// Config binds the services to one platform project. It is created once at
// process start and never mutated.
type Config struct {
	EndpointURL  string
	ProjectID    string
	DatabaseID   string
	CollectionID string
	BucketID     string
}

// Validate checks that every identifier is present and the endpoint is an
// absolute http(s) URL.
func (c Config) Validate() error {
	if _, err := c.Endpoint(); err != nil {
		return err
	}
	if c.ProjectID == "" {
		return errors.New("project id is required")
	}
	if c.DatabaseID == "" {
		return errors.New("database id is required")
	}
	if c.CollectionID == "" {
		return errors.New("collection id is required")
	}
	if c.BucketID == "" {
		return errors.New("bucket id is required")
	}
	return nil
}

// Endpoint parses EndpointURL.
func (c Config) Endpoint() (*url.URL, error) {
	if c.EndpointURL == "" {
		return nil, errors.New("endpoint url is required")
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint url %q has no host", c.EndpointURL)
	}
	return u, nil
}

// PreviewURL derives the platform's file preview URL. It only joins path
// segments; it never fails and never checks that the file exists.
func PreviewURL(endpoint *url.URL, projectID, bucketID, fileID string) *url.URL {
	u := JoinSegments(endpoint, "storage", "buckets", bucketID, "files", fileID, "preview")
	q := u.Query()
	q.Set("project", projectID)
	u.RawQuery = q.Encode()
	return u
}

// JoinSegments appends path segments to base. Each segment is escaped, so an
// id containing '/' stays one segment.
func JoinSegments(base *url.URL, segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return base.JoinPath(escaped...)
}
