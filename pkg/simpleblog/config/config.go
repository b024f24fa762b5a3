package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/platform/appwrite"
	"github.com/tendant/simple-blog/pkg/simpleblog/platform/memory"
	s3store "github.com/tendant/simple-blog/pkg/simpleblog/platform/s3"
)

const (
	PlatformAppwrite = "appwrite"
	PlatformMemory   = "memory"

	FileStorePlatform = "platform"
	FileStoreS3       = "s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaults mirrors the env-default tags below.
func defaults() ServerConfig {
	return ServerConfig{
		Platform:  PlatformMemory,
		FileStore: FileStorePlatform,
		LogLevel:  "info",
		Appwrite: AppwriteConfig{
			URL:          "http://localhost/v1",
			ProjectID:    "simple-blog",
			DatabaseID:   "blog",
			CollectionID: "posts",
			BucketID:     "images",
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		HTTP: HTTPConfig{
			Timeout:  30 * time.Second,
			RetryMax: 2,
		},
	}
}

// ServerConfig selects the backing platform and binds the blog services to
// one project.
type ServerConfig struct {
	Platform  string `yaml:"platform" env:"PLATFORM" env-default:"memory" env-description:"appwrite or memory"`
	FileStore string `yaml:"file_store" env:"FILE_STORE" env-default:"platform" env-description:"platform or s3"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Appwrite AppwriteConfig `yaml:"appwrite"`
	S3       S3Config       `yaml:"s3"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// AppwriteConfig identifies the project and its resources.
type AppwriteConfig struct {
	URL          string `yaml:"url" env:"APPWRITE_URL" env-default:"http://localhost/v1"`
	ProjectID    string `yaml:"project_id" env:"APPWRITE_PROJECT_ID" env-default:"simple-blog"`
	DatabaseID   string `yaml:"database_id" env:"APPWRITE_DATABASE_ID" env-default:"blog"`
	CollectionID string `yaml:"collection_id" env:"APPWRITE_COLLECTION_ID" env-default:"posts"`
	BucketID     string `yaml:"bucket_id" env:"APPWRITE_BUCKET_ID" env-default:"images"`
}

// S3Config is used when FileStore is "s3". BucketID of AppwriteConfig names
// the S3 bucket.
type S3Config struct {
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL"`
}

// HTTPConfig tunes the platform REST client.
type HTTPConfig struct {
	Timeout  time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	RetryMax int           `yaml:"retry_max" env:"HTTP_RETRY_MAX" env-default:"2"`
}

// Blog returns the identifiers the services are bound to.
func (c *ServerConfig) Blog() simpleblog.Config {
	return simpleblog.Config{
		EndpointURL:  c.Appwrite.URL,
		ProjectID:    c.Appwrite.ProjectID,
		DatabaseID:   c.Appwrite.DatabaseID,
		CollectionID: c.Appwrite.CollectionID,
		BucketID:     c.Appwrite.BucketID,
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Platform != PlatformAppwrite && c.Platform != PlatformMemory {
		return fmt.Errorf("platform must be '%s' or '%s', got: %s", PlatformAppwrite, PlatformMemory, c.Platform)
	}
	if c.FileStore != FileStorePlatform && c.FileStore != FileStoreS3 {
		return fmt.Errorf("file_store must be '%s' or '%s', got: %s", FileStorePlatform, FileStoreS3, c.FileStore)
	}
	if err := c.Blog().Validate(); err != nil {
		return err
	}
	if c.FileStore == FileStoreS3 && c.S3.Region == "" {
		return errors.New("s3 region is required when file_store is s3")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got: %s", c.HTTP.Timeout)
	}
	if c.HTTP.RetryMax < 0 {
		return fmt.Errorf("http retry max must not be negative, got: %d", c.HTTP.RetryMax)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Services is the pair of facades built from one configuration.
type Services struct {
	Auth    *simpleblog.AuthService
	Content *simpleblog.ContentService

	// Memory is set when Platform is "memory".
	Memory *memory.Server
}

// BuildServices creates the auth and content services. Both share a single
// platform handle, so content calls run with the session opened by Auth.
func (c *ServerConfig) BuildServices(logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}
	blog := c.Blog()
	endpoint, err := blog.Endpoint()
	if err != nil {
		return nil, err
	}

	var (
		account   simpleblog.AccountAPI
		documents simpleblog.DocumentStore
		files     simpleblog.FileStore
		services  Services
	)

	switch c.Platform {
	case PlatformMemory:
		services.Memory = memory.NewServer(endpoint, blog.ProjectID)
		client := services.Memory.NewClient()
		account, documents, files = client, client, client
	case PlatformAppwrite:
		client, err := appwrite.New(appwrite.Config{
			Endpoint:  c.Appwrite.URL,
			ProjectID: c.Appwrite.ProjectID,
			Timeout:   c.HTTP.Timeout,
			RetryMax:  c.HTTP.RetryMax,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build appwrite client: %w", err)
		}
		account, documents, files = client, client, client
	default:
		return nil, fmt.Errorf("unsupported platform: %s", c.Platform)
	}

	if c.FileStore == FileStoreS3 {
		store, err := s3store.New(s3store.Config{
			Region:          c.S3.Region,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			PublicURL:       c.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build s3 file store: %w", err)
		}
		files = store
	}

	services.Auth, err = simpleblog.NewAuthService(account)
	if err != nil {
		return nil, err
	}
	services.Content, err = simpleblog.NewContentService(blog,
		simpleblog.WithDocumentStore(documents),
		simpleblog.WithFileStore(files),
		simpleblog.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return &services, nil
}
