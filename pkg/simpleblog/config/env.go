package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads the process environment into the configuration.
//
// Platform:
//
//	PLATFORM               - "memory" (default) or "appwrite"
//	APPWRITE_URL           - API root including the version, e.g. "https://cloud.appwrite.io/v1"
//	APPWRITE_PROJECT_ID    - Project id
//	APPWRITE_DATABASE_ID   - Database holding the post collection
//	APPWRITE_COLLECTION_ID - Post collection
//	APPWRITE_BUCKET_ID     - Bucket for uploaded files (S3 bucket when FILE_STORE=s3)
//
// Files:
//
//	FILE_STORE - "platform" (default) or "s3"
//	S3_REGION, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_ENDPOINT,
//	S3_USE_PATH_STYLE, S3_PUBLIC_URL
//
// Transport:
//
//	HTTP_TIMEOUT   - Per-attempt timeout (default: "30s")
//	HTTP_RETRY_MAX - Retries on connection errors and 5xx (default: 2)
//
// Unset variables fall back to their defaults, so WithEnv should be applied
// before programmatic options.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithEnvFile reads a YAML, JSON, TOML or .env file and then the process
// environment, which takes precedence.
func WithEnvFile(path string) Option {
	return func(c *ServerConfig) error {
		if path == "" {
			return fmt.Errorf("config file path cannot be empty")
		}
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// Usage describes every environment variable the configuration reads.
func Usage() string {
	var cfg ServerConfig
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
