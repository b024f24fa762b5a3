package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func documentsPath(databaseID, collectionID string, documentID ...string) []string {
	path := []string{"databases", databaseID, "collections", collectionID, "documents"}
	return append(path, documentID...)
}

// CreateDocument creates a document under documentID.
func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*simpleblog.Document, error) {
	var doc simpleblog.Document
	err := c.do(ctx, request{
		op:     "databases.createDocument",
		method: http.MethodPost,
		path:   documentsPath(databaseID, collectionID),
		body:   map[string]any{"documentId": documentID, "data": data},
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocument reads one document.
func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*simpleblog.Document, error) {
	var doc simpleblog.Document
	err := c.do(ctx, request{
		op:     "databases.getDocument",
		method: http.MethodGet,
		path:   documentsPath(databaseID, collectionID, documentID),
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument applies a partial update.
func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*simpleblog.Document, error) {
	var doc simpleblog.Document
	err := c.do(ctx, request{
		op:     "databases.updateDocument",
		method: http.MethodPatch,
		path:   documentsPath(databaseID, collectionID, documentID),
		body:   map[string]any{"data": data},
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	return c.do(ctx, request{
		op:     "databases.deleteDocument",
		method: http.MethodDelete,
		path:   documentsPath(databaseID, collectionID, documentID),
	}, nil)
}

// ListDocuments lists documents; queries are sent as queries[] parameters.
func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries []simpleblog.Query) (*simpleblog.DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q.String())
	}
	var list simpleblog.DocumentList
	err := c.do(ctx, request{
		op:     "databases.listDocuments",
		method: http.MethodGet,
		path:   documentsPath(databaseID, collectionID),
		query:  params,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
