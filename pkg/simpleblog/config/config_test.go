package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, PlatformMemory, cfg.Platform)
	assert.Equal(t, FileStorePlatform, cfg.FileStore)
	assert.Equal(t, "blog", cfg.Appwrite.DatabaseID)
	assert.Equal(t, "posts", cfg.Appwrite.CollectionID)
	assert.Equal(t, "images", cfg.Appwrite.BucketID)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.RetryMax)
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
		check   func(t *testing.T, cfg *ServerConfig)
	}{
		{
			name: "appwrite platform",
			opts: []Option{
				WithPlatform(PlatformAppwrite),
				WithAppwrite("https://cloud.example.com/v1", "proj"),
				WithDatabase("db", "articles"),
				WithBucket("media"),
			},
			check: func(t *testing.T, cfg *ServerConfig) {
				assert.Equal(t, simpleblog.Config{
					EndpointURL:  "https://cloud.example.com/v1",
					ProjectID:    "proj",
					DatabaseID:   "db",
					CollectionID: "articles",
					BucketID:     "media",
				}, cfg.Blog())
			},
		},
		{
			name: "s3 file store",
			opts: []Option{WithS3FileStore("", "http://localhost:9000", "key", "secret", true)},
			check: func(t *testing.T, cfg *ServerConfig) {
				assert.Equal(t, FileStoreS3, cfg.FileStore)
				assert.Equal(t, "us-east-1", cfg.S3.Region)
				assert.True(t, cfg.S3.UsePathStyle)
			},
		},
		{
			name: "http tuning",
			opts: []Option{WithHTTP(5*time.Second, 0)},
			check: func(t *testing.T, cfg *ServerConfig) {
				assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
				assert.Equal(t, 0, cfg.HTTP.RetryMax)
			},
		},
		{name: "unknown platform", opts: []Option{WithPlatform("firebase")}, wantErr: true},
		{name: "empty bucket", opts: []Option{WithBucket("")}, wantErr: true},
		{name: "relative endpoint", opts: []Option{WithAppwrite("cloud.example.com", "proj")}, wantErr: true},
		{name: "half credentials", opts: []Option{WithS3FileStore("", "", "key", "", false)}, wantErr: true},
		{name: "negative retries", opts: []Option{WithHTTP(time.Second, -1)}, wantErr: true},
		{name: "bad log level", opts: []Option{WithLogLevel("loud")}, wantErr: true},
		{name: "nil option ignored", opts: []Option{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestWithEnvFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	content := `platform: appwrite
appwrite:
  url: https://cloud.example.com/v1
  project_id: from-file
  bucket_id: uploads
http:
  retry_max: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithEnvFile(path))
	require.NoError(t, err)
	assert.Equal(t, PlatformAppwrite, cfg.Platform)
	assert.Equal(t, "from-file", cfg.Appwrite.ProjectID)
	assert.Equal(t, "uploads", cfg.Appwrite.BucketID)
	assert.Equal(t, "posts", cfg.Appwrite.CollectionID)
	assert.Equal(t, 4, cfg.HTTP.RetryMax)

	_, err = Load(WithEnvFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestBuildServicesMemory(t *testing.T) {
	cfg, err := Load(WithAppwrite("https://cloud.example.com/v1", "proj"))
	require.NoError(t, err)

	services, err := cfg.BuildServices(nil)
	require.NoError(t, err)
	require.NotNil(t, services.Memory)

	ctx := context.Background()
	_, err = services.Auth.CreateAccount(ctx, simpleblog.CreateAccountRequest{Name: "Ann", Email: "ann@example.com", Password: "password1"})
	require.NoError(t, err)

	res := services.Content.CreatePost(ctx, simpleblog.CreatePostRequest{Title: "T", Slug: "t", Status: simpleblog.PostStatusActive})
	assert.True(t, res.OK)
	assert.Equal(t, "https://cloud.example.com/v1/storage/buckets/images/files/f1/preview?project=proj",
		services.Content.GetFilePreview("f1").String())
}

func TestBuildServicesAppwrite(t *testing.T) {
	cfg, err := Load(WithPlatform(PlatformAppwrite), WithAppwrite("https://cloud.example.com/v1", "proj"))
	require.NoError(t, err)

	services, err := cfg.BuildServices(nil)
	require.NoError(t, err)
	assert.Nil(t, services.Memory)
	assert.NotNil(t, services.Auth)
	assert.NotNil(t, services.Content)
}

func TestBuildServicesS3FileStore(t *testing.T) {
	cfg, err := Load(
		WithS3FileStore("eu-west-1", "http://localhost:9000", "key", "secret", true),
		WithS3PublicURL("https://cdn.example.com"),
	)
	require.NoError(t, err)

	services, err := cfg.BuildServices(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/f1", services.Content.GetFilePreview("f1").String())
}
