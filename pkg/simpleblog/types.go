package simpleblog

import (
	"encoding/json"
	"io"
	"time"
)

// UniqueID asks the platform to generate the identifier of a new resource.
const UniqueID = "unique()"

// PostStatus is the publication state stored on a post document.
type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusInactive PostStatus = "inactive"
	PostStatusDraft    PostStatus = "draft"
)

// Post document attribute names.
const (
	AttrTitle         = "title"
	AttrContent       = "content"
	AttrFeaturedImage = "featuredImage"
	AttrStatus        = "status"
	AttrUserID        = "userId"
)

// User is the platform's account record. The facade passes it through.
type User struct {
	ID                string         `json:"$id"`
	CreatedAt         string         `json:"$createdAt,omitempty"`
	UpdatedAt         string         `json:"$updatedAt,omitempty"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone,omitempty"`
	Registration      string         `json:"registration,omitempty"`
	Status            bool           `json:"status"`
	Labels            []string       `json:"labels,omitempty"`
	EmailVerification bool           `json:"emailVerification"`
	PhoneVerification bool           `json:"phoneVerification"`
	Prefs             map[string]any `json:"prefs,omitempty"`
}

// Session is the platform's session record returned by a login.
type Session struct {
	ID         string `json:"$id"`
	CreatedAt  string `json:"$createdAt,omitempty"`
	UserID     string `json:"userId"`
	Expire     string `json:"expire,omitempty"`
	Provider   string `json:"provider,omitempty"`
	IP         string `json:"ip,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	Current    bool   `json:"current"`
	Secret     string `json:"secret,omitempty"`
}

// Document is one record of the platform's document store. System
// attributes are prefixed with '$' on the wire; everything else is Data.
type Document struct {
	ID           string
	CollectionID string
	DatabaseID   string
	CreatedAt    string
	UpdatedAt    string
	Permissions  []string
	Data         map[string]any
}

// MarshalJSON flattens the document into the platform's wire shape.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Data)+6)
	for k, v := range d.Data {
		out[k] = v
	}
	out["$id"] = d.ID
	out["$collectionId"] = d.CollectionID
	out["$databaseId"] = d.DatabaseID
	out["$createdAt"] = d.CreatedAt
	out["$updatedAt"] = d.UpdatedAt
	perms := d.Permissions
	if perms == nil {
		perms = []string{}
	}
	out["$permissions"] = perms
	return json.Marshal(out)
}

// UnmarshalJSON splits the platform's wire shape into system fields and Data.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "$id":
			d.ID, _ = v.(string)
		case "$collectionId":
			d.CollectionID, _ = v.(string)
		case "$databaseId":
			d.DatabaseID, _ = v.(string)
		case "$createdAt":
			d.CreatedAt, _ = v.(string)
		case "$updatedAt":
			d.UpdatedAt, _ = v.(string)
		case "$permissions":
			if list, ok := v.([]any); ok {
				for _, p := range list {
					if s, ok := p.(string); ok {
						d.Permissions = append(d.Permissions, s)
					}
				}
			}
		default:
			d.Data[k] = v
		}
	}
	return nil
}

// DocumentList is the result of a listing call.
type DocumentList struct {
	Total     int         `json:"total"`
	Documents []*Document `json:"documents"`
}

// File is the platform's metadata record for a stored file.
type File struct {
	ID             string   `json:"$id"`
	BucketID       string   `json:"bucketId"`
	CreatedAt      string   `json:"$createdAt,omitempty"`
	UpdatedAt      string   `json:"$updatedAt,omitempty"`
	Permissions    []string `json:"$permissions,omitempty"`
	Name           string   `json:"name"`
	Signature      string   `json:"signature,omitempty"`
	MimeType       string   `json:"mimeType"`
	SizeOriginal   int64    `json:"sizeOriginal"`
	ChunksTotal    int      `json:"chunksTotal,omitempty"`
	ChunksUploaded int      `json:"chunksUploaded,omitempty"`
}

// InputFile is a binary blob handed to a FileStore.
type InputFile struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

// Timestamp formats t the way the platform renders $createdAt/$updatedAt.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000-07:00")
}
