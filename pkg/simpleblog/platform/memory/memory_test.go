package memory

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	endpoint, err := url.Parse("https://cloud.example.com/v1")
	require.NoError(t, err)
	return NewServer(endpoint, "proj")
}

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestServer(t).NewClient()

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, simpleblog.ErrUnauthorized)

	user, err := c.Create(ctx, simpleblog.UniqueID, "Ann@Example.com", "password1", "Ann")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, simpleblog.UniqueID, user.ID)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = c.Create(ctx, simpleblog.UniqueID, "ann@example.com", "password2", "Ann again")
	assert.ErrorIs(t, err, simpleblog.ErrConflict)

	_, err = c.CreateEmailPasswordSession(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, simpleblog.ErrUnauthorized)

	session, err := c.CreateEmailPasswordSession(ctx, "ann@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	_, err = c.CreateEmailPasswordSession(ctx, "ann@example.com", "password1")
	assert.ErrorIs(t, err, simpleblog.ErrUnauthorized, "second session on an active handle is refused")

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, c.DeleteSessions(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, simpleblog.ErrUnauthorized)
}

func TestCreateAccountValidation(t *testing.T) {
	c := newTestServer(t).NewClient()
	ctx := context.Background()

	_, err := c.Create(ctx, simpleblog.UniqueID, "not-an-email", "password1", "x")
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)

	_, err = c.Create(ctx, simpleblog.UniqueID, "a@b.c", "short", "x")
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)

	_, err = c.Create(ctx, "_bad", "a@b.c", "password1", "x")
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)
}

func TestDeleteSessionsIsGlobal(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	laptop, phone := srv.NewClient(), srv.NewClient()

	_, err := laptop.Create(ctx, simpleblog.UniqueID, "bo@example.com", "password1", "Bo")
	require.NoError(t, err)
	_, err = laptop.CreateEmailPasswordSession(ctx, "bo@example.com", "password1")
	require.NoError(t, err)
	_, err = phone.CreateEmailPasswordSession(ctx, "bo@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, laptop.DeleteSessions(ctx))

	_, err = phone.Get(ctx)
	assert.ErrorIs(t, err, simpleblog.ErrUnauthorized)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	c := newTestServer(t).NewClient()

	doc, err := c.CreateDocument(ctx, "db", "posts", "hello", map[string]any{"title": "Hello", "status": "active"})
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.ID)
	assert.Equal(t, "posts", doc.CollectionID)

	_, err = c.CreateDocument(ctx, "db", "posts", "hello", map[string]any{"title": "Other"})
	assert.ErrorIs(t, err, simpleblog.ErrConflict)

	_, err = c.UpdateDocument(ctx, "db", "posts", "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, simpleblog.ErrNotFound)

	updated, err := c.UpdateDocument(ctx, "db", "posts", "hello", map[string]any{"title": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", updated.Data["title"])
	assert.Equal(t, "active", updated.Data["status"])

	doc.Data["title"] = "mutated copy"
	stored, err := c.GetDocument(ctx, "db", "posts", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi", stored.Data["title"])

	// same id in another collection is a different document
	_, err = c.CreateDocument(ctx, "db", "drafts", "hello", map[string]any{})
	assert.NoError(t, err)

	require.NoError(t, c.DeleteDocument(ctx, "db", "posts", "hello"))
	assert.ErrorIs(t, c.DeleteDocument(ctx, "db", "posts", "hello"), simpleblog.ErrNotFound)
}

func TestListDocumentsQueries(t *testing.T) {
	ctx := context.Background()
	c := newTestServer(t).NewClient()

	seed := []struct{ id, title, status string }{
		{"a", "Alpha post", "active"},
		{"b", "Beta post", "draft"},
		{"c", "Gamma note", "active"},
		{"d", "Delta post", "inactive"},
	}
	for _, s := range seed {
		_, err := c.CreateDocument(ctx, "db", "posts", s.id, map[string]any{"title": s.title, "status": s.status})
		require.NoError(t, err)
	}

	ids := func(list *simpleblog.DocumentList) []string {
		var out []string
		for _, d := range list.Documents {
			out = append(out, d.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		queries []simpleblog.Query
		want    []string
		total   int
	}{
		{"no queries", nil, []string{"a", "b", "c", "d"}, 4},
		{"equal", []simpleblog.Query{simpleblog.Equal("status", "active")}, []string{"a", "c"}, 2},
		{"equal any of", []simpleblog.Query{simpleblog.Equal("status", "active", "draft")}, []string{"a", "b", "c"}, 3},
		{"not equal", []simpleblog.Query{simpleblog.NotEqual("status", "active")}, []string{"b", "d"}, 2},
		{"search", []simpleblog.Query{simpleblog.Search("title", "POST")}, []string{"a", "b", "d"}, 3},
		{"order desc", []simpleblog.Query{simpleblog.OrderDesc("$id")}, []string{"d", "c", "b", "a"}, 4},
		{"limit offset", []simpleblog.Query{simpleblog.OrderAsc("$id"), simpleblog.Limit(2), simpleblog.Offset(1)}, []string{"b", "c"}, 4},
		{"no match", []simpleblog.Query{simpleblog.Equal("status", "archived")}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := c.ListDocuments(ctx, "db", "posts", tt.queries)
			require.NoError(t, err)
			assert.Equal(t, tt.total, list.Total)
			assert.Equal(t, tt.want, ids(list))
			assert.NotNil(t, list.Documents)
		})
	}

	_, err := c.ListDocuments(ctx, "db", "posts", []simpleblog.Query{{Method: "between", Attribute: "x"}})
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)
}

func TestFiles(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c := srv.NewClient()

	first, err := c.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "a.txt", Reader: strings.NewReader("same")})
	require.NoError(t, err)
	second, err := c.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "a.txt", Reader: strings.NewReader("same")})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, int64(4), first.SizeOriginal)
	assert.Equal(t, "text/plain; charset=utf-8", first.MimeType)

	data, ok := srv.FileContents("images", first.ID)
	require.True(t, ok)
	assert.Equal(t, "same", string(data))

	_, err = c.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "empty", Reader: strings.NewReader("")})
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)

	require.NoError(t, c.DeleteFile(ctx, "images", first.ID))
	assert.ErrorIs(t, c.DeleteFile(ctx, "images", first.ID), simpleblog.ErrNotFound)

	preview := c.FilePreviewURL("images", second.ID)
	assert.Equal(t, "https://cloud.example.com/v1/storage/buckets/images/files/"+second.ID+"/preview?project=proj", preview.String())
}

func TestConcurrentCreateSameID(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.NewClient().CreateDocument(ctx, "db", "posts", "race", map[string]any{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, simpleblog.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}
