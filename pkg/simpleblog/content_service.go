package simpleblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

// ContentService manages post documents and files in one fixed
// database/collection/bucket.
//
// Platform failures are logged with an operation tag and turned into a
// failed Result (or false). No error ever reaches the caller, so callers
// must check Result.OK.
type ContentService struct {
	config    Config
	documents DocumentStore
	files     FileStore
	logger    *slog.Logger
}

// Option represents a functional option for configuring the content service
type Option func(*ContentService)

// WithDocumentStore sets the document store handle
func WithDocumentStore(store DocumentStore) Option {
	return func(s *ContentService) {
		s.documents = store
	}
}

// WithFileStore sets the file store handle
func WithFileStore(store FileStore) Option {
	return func(s *ContentService) {
		s.files = store
	}
}

// WithLogger sets the logger used for failed operations
func WithLogger(logger *slog.Logger) Option {
	return func(s *ContentService) {
		s.logger = logger
	}
}

// NewContentService creates a content service bound to cfg.
func NewContentService(cfg Config, options ...Option) (*ContentService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &ContentService{config: cfg}
	for _, option := range options {
		option(s)
	}

	if s.documents == nil {
		return nil, errors.New("document store is required")
	}
	if s.files == nil {
		return nil, errors.New("file store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Config returns the configuration the service is bound to.
func (s *ContentService) Config() Config {
	return s.config
}

func (s *ContentService) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "error", err)
	s.logger.ErrorContext(ctx, "content service :: "+op+" :: error", attrs...)
}

// Post operations

// CreatePost creates a post document keyed by req.Slug. A duplicate slug is
// rejected by the platform and yields a failed result.
func (s *ContentService) CreatePost(ctx context.Context, req CreatePostRequest) Result[*Document] {
	doc, err := s.documents.CreateDocument(ctx, s.config.DatabaseID, s.config.CollectionID, req.Slug, req.data())
	if err != nil {
		s.logFailure(ctx, "createPost", err, "slug", req.Slug)
		return Failed[*Document]()
	}
	return Ok(doc)
}

// UpdatePost applies a partial update to an existing post. It never creates
// a document.
func (s *ContentService) UpdatePost(ctx context.Context, slug string, req UpdatePostRequest) Result[*Document] {
	doc, err := s.documents.UpdateDocument(ctx, s.config.DatabaseID, s.config.CollectionID, slug, req.data())
	if err != nil {
		s.logFailure(ctx, "updatePost", err, "slug", slug)
		return Failed[*Document]()
	}
	return Ok(doc)
}

// DeletePost deletes a post and reports whether it succeeded.
func (s *ContentService) DeletePost(ctx context.Context, slug string) bool {
	if err := s.documents.DeleteDocument(ctx, s.config.DatabaseID, s.config.CollectionID, slug); err != nil {
		s.logFailure(ctx, "deletePost", err, "slug", slug)
		return false
	}
	return true
}

// GetPostBySlug reads a single post.
func (s *ContentService) GetPostBySlug(ctx context.Context, slug string) Result[*Document] {
	doc, err := s.documents.GetDocument(ctx, s.config.DatabaseID, s.config.CollectionID, slug)
	if err != nil {
		s.logFailure(ctx, "getPostBySlug", err, "slug", slug)
		return Failed[*Document]()
	}
	return Ok(doc)
}

// GetPost lists posts matching queries, which are passed through unchanged.
// When queries are omitted only active posts are listed; an explicit empty
// slice (GetPost(ctx, []Query{}...)) lists every post. An empty listing is a
// successful result.
func (s *ContentService) GetPost(ctx context.Context, queries ...Query) Result[*DocumentList] {
	if queries == nil {
		queries = DefaultPostQueries()
	}
	list, err := s.documents.ListDocuments(ctx, s.config.DatabaseID, s.config.CollectionID, queries)
	if err != nil {
		s.logFailure(ctx, "getPost", err)
		return Failed[*DocumentList]()
	}
	if list == nil {
		list = &DocumentList{}
	}
	if list.Documents == nil {
		list.Documents = []*Document{}
	}
	return Ok(list)
}

// File operations

// UploadFile stores a file under a platform-generated id. Identical content
// uploaded twice produces two files.
func (s *ContentService) UploadFile(ctx context.Context, file InputFile) Result[*File] {
	if file.Reader == nil {
		s.logFailure(ctx, "uploadFile", errors.New("file reader is nil"), "name", file.Name)
		return Failed[*File]()
	}
	stored, err := s.files.CreateFile(ctx, s.config.BucketID, UniqueID, file)
	if err != nil {
		s.logFailure(ctx, "uploadFile", err, "name", file.Name)
		return Failed[*File]()
	}
	return Ok(stored)
}

// DeleteFile deletes a file and reports whether it succeeded.
func (s *ContentService) DeleteFile(ctx context.Context, fileID string) bool {
	if err := s.files.DeleteFile(ctx, s.config.BucketID, fileID); err != nil {
		s.logFailure(ctx, "deleteFile", err, "file_id", fileID)
		return false
	}
	return true
}

// GetFilePreview derives the preview URL of a file in the bound bucket. It
// performs no I/O; a URL is returned even for ids that do not exist.
func (s *ContentService) GetFilePreview(fileID string) *url.URL {
	return s.files.FilePreviewURL(s.config.BucketID, fileID)
}
