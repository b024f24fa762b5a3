package config

import (
	"fmt"
	"time"
)

// WithPlatform selects the backing platform ("appwrite" or "memory").
func WithPlatform(platform string) Option {
	return func(c *ServerConfig) error {
		if platform != PlatformAppwrite && platform != PlatformMemory {
			return fmt.Errorf("platform must be '%s' or '%s', got: %s", PlatformAppwrite, PlatformMemory, platform)
		}
		c.Platform = platform
		return nil
	}
}

// WithAppwrite sets the API root and project id
func WithAppwrite(url, projectID string) Option {
	return func(c *ServerConfig) error {
		if url == "" {
			return fmt.Errorf("appwrite url cannot be empty")
		}
		if projectID == "" {
			return fmt.Errorf("appwrite project id cannot be empty")
		}
		c.Appwrite.URL = url
		c.Appwrite.ProjectID = projectID
		return nil
	}
}

// WithDatabase sets the database and collection holding posts
func WithDatabase(databaseID, collectionID string) Option {
	return func(c *ServerConfig) error {
		if databaseID == "" || collectionID == "" {
			return fmt.Errorf("database and collection ids cannot be empty")
		}
		c.Appwrite.DatabaseID = databaseID
		c.Appwrite.CollectionID = collectionID
		return nil
	}
}

// WithBucket sets the bucket for uploaded files
func WithBucket(bucketID string) Option {
	return func(c *ServerConfig) error {
		if bucketID == "" {
			return fmt.Errorf("bucket id cannot be empty")
		}
		c.Appwrite.BucketID = bucketID
		return nil
	}
}

// WithS3FileStore stores files in an S3-compatible bucket instead of the
// platform's storage.
// If region is empty, defaults to "us-east-1"
func WithS3FileStore(region, endpoint, accessKeyID, secretAccessKey string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		if region == "" {
			region = "us-east-1"
		}
		if (accessKeyID == "") != (secretAccessKey == "") {
			return fmt.Errorf("s3 access key id and secret access key must be set together")
		}
		c.FileStore = FileStoreS3
		c.S3.Region = region
		c.S3.Endpoint = endpoint
		c.S3.AccessKeyID = accessKeyID
		c.S3.SecretAccessKey = secretAccessKey
		c.S3.UsePathStyle = usePathStyle
		return nil
	}
}

// WithS3PublicURL sets the base URL file previews are derived from
func WithS3PublicURL(publicURL string) Option {
	return func(c *ServerConfig) error {
		c.S3.PublicURL = publicURL
		return nil
	}
}

// WithHTTP tunes the REST client
func WithHTTP(timeout time.Duration, retryMax int) Option {
	return func(c *ServerConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("http timeout must be positive, got: %s", timeout)
		}
		if retryMax < 0 {
			return fmt.Errorf("http retry max must not be negative, got: %d", retryMax)
		}
		c.HTTP.Timeout = timeout
		c.HTTP.RetryMax = retryMax
		return nil
	}
}

// WithLogLevel sets the minimum level of the command loggers
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		if _, err := ParseLogLevel(level); err != nil {
			return err
		}
		c.LogLevel = level
		return nil
	}
}
