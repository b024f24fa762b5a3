package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// CreateFile stores the blob. Identical content is never deduplicated.
func (c *Client) CreateFile(ctx context.Context, bucketID, fileID string, file simpleblog.InputFile) (*simpleblog.File, error) {
	const op = "storage.createFile"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := resolveID(op, fileID)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "storage_invalid_file", err.Error())
	}
	if len(data) == 0 {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "storage_file_empty",
			"Empty file passed to the endpoint.")
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	sum := md5.Sum(data)

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.files[bucketID]
	if !ok {
		bucket = make(map[string]*storedFile)
		s.files[bucketID] = bucket
	}
	if _, exists := bucket[id]; exists {
		return nil, simpleblog.NewPlatformError(op, http.StatusConflict, "storage_file_already_exists",
			"A storage file with the requested ID already exists.")
	}

	now := s.timestamp()
	stored := &storedFile{
		meta: simpleblog.File{
			ID:             id,
			BucketID:       bucketID,
			CreatedAt:      now,
			UpdatedAt:      now,
			Permissions:    []string{},
			Name:           file.Name,
			Signature:      hex.EncodeToString(sum[:]),
			MimeType:       mimeType,
			SizeOriginal:   int64(len(data)),
			ChunksTotal:    1,
			ChunksUploaded: 1,
		},
		data: data,
	}
	bucket[id] = stored

	meta := stored.meta
	return &meta, nil
}

// DeleteFile removes a stored file.
func (c *Client) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	const op = "storage.deleteFile"
	if err := ctx.Err(); err != nil {
		return err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.files[bucketID]
	if _, ok := bucket[fileID]; !ok {
		return simpleblog.NewPlatformError(op, http.StatusNotFound, "storage_file_not_found",
			"The requested file could not be found.")
	}
	delete(bucket, fileID)
	return nil
}

// FilePreviewURL derives the preview URL the way the hosted platform does.
func (c *Client) FilePreviewURL(bucketID, fileID string) *url.URL {
	return simpleblog.PreviewURL(c.server.endpoint, c.server.projectID, bucketID, fileID)
}

// FileContents returns a copy of a stored blob. It is not part of the
// platform interface and exists for inspection in tests and tools.
func (s *Server) FileContents(bucketID, fileID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[bucketID][fileID]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}
