package s3

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// fakeS3 keeps objects in memory and answers like S3 does.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	meta    map[string]map[string]string
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string][]byte{},
		types:   map[string]string{},
		meta:    map[string]map[string]string{},
	}
}

func key(bucket, k *string) string { return aws.ToString(bucket) + "/" + aws.ToString(k) }

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return nil, f.headErr
	}
	data, ok := f.objects[key(in.Bucket, in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key(in.Bucket, in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(in.Bucket, in.Key)
	f.objects[k] = data
	f.types[k] = aws.ToString(in.ContentType)
	f.meta[k] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func TestCreateFile(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Config{})
	ctx := context.Background()

	first, err := store.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "a.txt", Reader: strings.NewReader("hello")})
	require.NoError(t, err)
	second, err := store.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "a.txt", Reader: strings.NewReader("hello")})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "images", first.BucketID)
	assert.Equal(t, int64(5), first.SizeOriginal)
	assert.Equal(t, "hello", string(fake.objects["images/"+first.ID]))
	assert.Equal(t, "text/plain; charset=utf-8", fake.types["images/"+first.ID])
	assert.Equal(t, "a.txt", fake.meta["images/"+first.ID][metaName])
}

func TestCreateFileExplicitID(t *testing.T) {
	store := NewWithClient(newFakeS3(), Config{})
	ctx := context.Background()

	_, err := store.CreateFile(ctx, "images", "cover", simpleblog.InputFile{Name: "c.png", MimeType: "image/png", Reader: strings.NewReader("x")})
	require.NoError(t, err)

	_, err = store.CreateFile(ctx, "images", "cover", simpleblog.InputFile{Name: "c.png", Reader: strings.NewReader("y")})
	assert.ErrorIs(t, err, simpleblog.ErrConflict)

	_, err = store.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "empty", Reader: strings.NewReader("")})
	assert.ErrorIs(t, err, simpleblog.ErrBadRequest)
}

func TestDeleteFile(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Config{})
	ctx := context.Background()

	file, err := store.CreateFile(ctx, "images", simpleblog.UniqueID, simpleblog.InputFile{Name: "a", Reader: strings.NewReader("data")})
	require.NoError(t, err)

	require.NoError(t, store.DeleteFile(ctx, "images", file.ID))
	assert.ErrorIs(t, store.DeleteFile(ctx, "images", file.ID), simpleblog.ErrNotFound)

	fake.headErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
	err = store.DeleteFile(ctx, "images", "any")
	var pe *simpleblog.PlatformError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusForbidden, pe.StatusCode)
}

func TestFilePreviewURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"aws virtual host", Config{Region: "eu-west-1"}, "https://images.s3.eu-west-1.amazonaws.com/abc"},
		{"custom endpoint", Config{Endpoint: "http://localhost:9000", UsePathStyle: true}, "http://localhost:9000/images/abc"},
		{"public url wins", Config{Endpoint: "http://minio:9000", PublicURL: "https://cdn.example.com/files"}, "https://cdn.example.com/files/images/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewWithClient(newFakeS3(), tt.config)
			assert.Equal(t, tt.want, store.FilePreviewURL("images", "abc").String())
		})
	}
}
