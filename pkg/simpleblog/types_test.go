package simpleblog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"equal", Equal("status", "active"), `{"method":"equal","attribute":"status","values":["active"]}`},
		{"equal many", Equal("status", "active", "draft"), `{"method":"equal","attribute":"status","values":["active","draft"]}`},
		{"limit", Limit(10), `{"method":"limit","values":[10]}`},
		{"order", OrderDesc("$createdAt"), `{"method":"orderDesc","attribute":"$createdAt"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(` {"method":"search","attribute":"title","values":["go"]} `)
	require.NoError(t, err)
	assert.Equal(t, Search("title", "go"), q)

	_, err = ParseQuery(`{"attribute":"title"}`)
	assert.Error(t, err)

	_, err = ParseQuery(`status=active`)
	assert.Error(t, err)
}

func TestDocumentJSON(t *testing.T) {
	raw := `{"$id":"p1","$collectionId":"posts","$databaseId":"blog","$createdAt":"2024-01-01T00:00:00.000+00:00",` +
		`"$updatedAt":"2024-01-02T00:00:00.000+00:00","$permissions":["read(\"any\")"],"title":"Hi","featuredImage":null}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "p1", doc.ID)
	assert.Equal(t, "posts", doc.CollectionID)
	assert.Equal(t, "blog", doc.DatabaseID)
	assert.Equal(t, []string{`read("any")`}, doc.Permissions)
	assert.Equal(t, map[string]any{"title": "Hi", "featuredImage": nil}, doc.Data)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestPlatformErrorKinds(t *testing.T) {
	err := NewPlatformError("databases.getDocument", http.StatusNotFound, "document_not_found", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "document_not_found")
	assert.Equal(t, http.StatusNotFound, StatusForError(err, http.StatusBadGateway))

	wrapped := &AuthError{Op: "login", Err: NewPlatformError("account.createEmailPasswordSession", 401, "", "bad")}
	assert.ErrorIs(t, wrapped, ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, StatusForError(wrapped, http.StatusBadGateway))

	assert.Equal(t, http.StatusUnauthorized, StatusForError(ErrNoSession, http.StatusBadGateway))
	assert.Equal(t, http.StatusBadGateway, StatusForError(errors.New("boom"), http.StatusBadGateway))
	assert.ErrorIs(t, KindForStatus(http.StatusServiceUnavailable), ErrPlatform)
}

func TestConfigEndpoint(t *testing.T) {
	cfg := Config{EndpointURL: "http://localhost/v1", ProjectID: "p", DatabaseID: "d", CollectionID: "c", BucketID: "b"}
	require.NoError(t, cfg.Validate())

	for _, bad := range []string{"", "localhost/v1", "ftp://host/v1", "http:///v1"} {
		cfg.EndpointURL = bad
		assert.Error(t, cfg.Validate(), bad)
	}
}

func TestPreviewURLEscapesSegments(t *testing.T) {
	base, err := url.Parse("https://cloud.example.com/v1")
	require.NoError(t, err)

	u := PreviewURL(base, "proj", "images", "a/b")
	assert.Equal(t, "https://cloud.example.com/v1/storage/buckets/images/files/a%2Fb/preview?project=proj", u.String())
}
