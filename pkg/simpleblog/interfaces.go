package simpleblog

import (
	"context"
	"net/url"
)

// AccountAPI is the platform's account/session sub-interface.
type AccountAPI interface {
	// Create registers a new account. id may be UniqueID.
	Create(ctx context.Context, id, email, password, name string) (*User, error)

	// CreateEmailPasswordSession opens a session for the credentials.
	CreateEmailPasswordSession(ctx context.Context, email, password string) (*Session, error)

	// Get returns the account owning the current session.
	Get(ctx context.Context) (*User, error)

	// DeleteSessions removes every session of the current account.
	DeleteSessions(ctx context.Context) error
}

// DocumentStore is the platform's structured document sub-interface.
type DocumentStore interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error)
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries []Query) (*DocumentList, error)
}

// FileStore is the platform's binary storage sub-interface.
type FileStore interface {
	// CreateFile stores file under fileID. fileID may be UniqueID.
	CreateFile(ctx context.Context, bucketID, fileID string, file InputFile) (*File, error)

	DeleteFile(ctx context.Context, bucketID, fileID string) error

	// FilePreviewURL derives a preview URL. It performs no I/O and does not
	// check that the file exists.
	FilePreviewURL(bucketID, fileID string) *url.URL
}
