package appwrite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// DefaultChunkSize is the largest body sent in one upload request. Bigger
// files are sent as consecutive Content-Range chunks.
const DefaultChunkSize = 5 << 20

// CreateFile uploads a file (POST /storage/buckets/{bucket}/files).
func (c *Client) CreateFile(ctx context.Context, bucketID, fileID string, file simpleblog.InputFile) (*simpleblog.File, error) {
	const op = "storage.createFile"
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read file: %w", op, err)
	}
	name := file.Name
	if name == "" {
		name = "file"
	}
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	size := len(data)
	if size <= c.chunkSize {
		return c.uploadChunk(ctx, op, bucketID, fileID, name, mimeType, data, nil)
	}

	var stored *simpleblog.File
	for start := 0; start < size; start += c.chunkSize {
		end := min(start+c.chunkSize, size)
		headers := http.Header{}
		headers.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, size))
		if stored != nil {
			headers.Set(headerUploadID, stored.ID)
		}
		stored, err = c.uploadChunk(ctx, op, bucketID, fileID, name, mimeType, data[start:end], headers)
		if err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (c *Client) uploadChunk(ctx context.Context, op, bucketID, fileID, name, mimeType string, chunk []byte, headers http.Header) (*simpleblog.File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("fileId", fileID); err != nil {
		return nil, fmt.Errorf("%s: failed to encode upload: %w", op, err)
	}
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, name)},
		"Content-Type":        {mimeType},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode upload: %w", op, err)
	}
	if _, err := part.Write(chunk); err != nil {
		return nil, fmt.Errorf("%s: failed to encode upload: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: failed to encode upload: %w", op, err)
	}

	var stored simpleblog.File
	err = c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        []string{"storage", "buckets", bucketID, "files"},
		rawBody:     buf.Bytes(),
		contentType: mw.FormDataContentType(),
		headers:     headers,
	}, &stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteFile removes a file (DELETE /storage/buckets/{bucket}/files/{id}).
func (c *Client) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	return c.do(ctx, request{
		op:     "storage.deleteFile",
		method: http.MethodDelete,
		path:   []string{"storage", "buckets", bucketID, "files", fileID},
	}, nil)
}

// FilePreviewURL derives the preview URL. It performs no request.
func (c *Client) FilePreviewURL(bucketID, fileID string) *url.URL {
	return simpleblog.PreviewURL(c.endpoint, c.projectID, bucketID, fileID)
}
