// Package s3 is a FileStore backed by an S3-compatible object store. The
// bucket id of the bound configuration is used as the S3 bucket name.
package s3

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const metaName = "name"

// Config options for the S3 file store
type Config struct {
	Region          string // AWS region (default: us-east-1)
	AccessKeyID     string // Static credentials; the default chain is used when empty
	SecretAccessKey string
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (MinIO)
	PublicURL       string // Base URL previews are derived from (default: Endpoint or AWS virtual host)
}

// API is the subset of the S3 client the store uses.
type API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	manager.UploadAPIClient
}

// Store implements simpleblog.FileStore on S3.
type Store struct {
	client   API
	uploader *manager.Uploader
	config   Config
	now      func() time.Time
}

var _ simpleblog.FileStore = (*Store)(nil)

// New creates an S3 file store.
func New(config Config) (*Store, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(config.Region)}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Options...), config), nil
}

// NewWithClient creates a store around an existing client.
func NewWithClient(client API, config Config) *Store {
	if config.Region == "" {
		config.Region = "us-east-1"
	}
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		config:   config,
		now:      time.Now,
	}
}

// CreateFile uploads the blob under fileID, generating one for UniqueID.
// An existing key is reported as a conflict.
func (s *Store) CreateFile(ctx context.Context, bucketID, fileID string, file simpleblog.InputFile) (*simpleblog.File, error) {
	const op = "s3.createFile"
	if fileID == simpleblog.UniqueID {
		fileID = strings.ReplaceAll(uuid.NewString(), "-", "")
	} else {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucketID), Key: aws.String(fileID)})
		if err == nil {
			return nil, simpleblog.NewPlatformError(op, http.StatusConflict, "storage_file_already_exists",
				"A storage file with the requested ID already exists.")
		}
		if !isNotFound(err) {
			return nil, wrapError(op, err)
		}
	}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read file: %w", op, err)
	}
	if len(data) == 0 {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "storage_file_empty", "Empty file passed to the endpoint.")
	}
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketID),
		Key:         aws.String(fileID),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
		Metadata:    map[string]string{metaName: file.Name},
	})
	if err != nil {
		return nil, wrapError(op, err)
	}

	sum := md5.Sum(data)
	now := simpleblog.Timestamp(s.now())
	return &simpleblog.File{
		ID:             fileID,
		BucketID:       bucketID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Name:           file.Name,
		Signature:      hex.EncodeToString(sum[:]),
		MimeType:       mimeType,
		SizeOriginal:   int64(len(data)),
		ChunksTotal:    1,
		ChunksUploaded: 1,
	}, nil
}

// DeleteFile removes the object. S3 deletes are idempotent, so the object
// is looked up first to report missing files.
func (s *Store) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	const op = "s3.deleteFile"
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucketID), Key: aws.String(fileID)})
	if err != nil {
		return wrapError(op, err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucketID), Key: aws.String(fileID)})
	if err != nil {
		return wrapError(op, err)
	}
	return nil
}

// FilePreviewURL derives the object URL. It performs no request.
func (s *Store) FilePreviewURL(bucketID, fileID string) *url.URL {
	base := s.config.PublicURL
	if base == "" {
		base = s.config.Endpoint
	}
	if base == "" {
		u := &url.URL{Scheme: "https", Host: fmt.Sprintf("%s.s3.%s.amazonaws.com", bucketID, s.config.Region)}
		return simpleblog.JoinSegments(u, fileID)
	}
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{Scheme: "https", Host: base}
	}
	return simpleblog.JoinSegments(u, bucketID, fileID)
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}

func wrapError(op string, err error) error {
	if isNotFound(err) {
		return simpleblog.NewPlatformError(op, http.StatusNotFound, "storage_file_not_found", err.Error())
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			status = http.StatusForbidden
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			status = http.StatusUnauthorized
		}
		return simpleblog.NewPlatformError(op, status, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
