package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	TempPrefix   = "pending/"
	PublicPrefix = "public/"

	DefaultUploadExpiry = 5 * time.Minute
)

var (
	// ErrNotConfigured is returned when a bucket required by the operation is not set.
	ErrNotConfigured = errors.New("storage location not configured")
	// ErrInvalidKey is returned for empty object keys or filenames.
	ErrInvalidKey = errors.New("invalid object key")
)

// UploadAuthorization is a presigned PUT URL plus the key the object will live under.
type UploadAuthorization struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// TempObject is a listing entry of the temporary bucket.
type TempObject struct {
	Key          string
	LastModified time.Time
}

// objectClient is the subset of *minio.Client used here; tests substitute a fake.
type objectClient interface {
	PresignHeader(ctx context.Context, method, bucketName, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error)
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// S3Config describes the two buckets of the publication pipeline.
type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	TempBucket   string
	PermBucket   string
	UploadExpiry time.Duration
}

// S3Storage moves audio between the temporary upload bucket and the public bucket.
type S3Storage struct {
	client       objectClient
	region       string
	tempBucket   string
	permBucket   string
	uploadExpiry time.Duration
	observer     Observer

	lastStamp atomic.Int64
	now       func() time.Time
}

// NewS3Storage tạo S3 client (minio-go nói chuyện được với cả AWS S3 và MinIO)
func NewS3Storage(cfg S3Config, observer Observer) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return newS3Storage(client, cfg, observer), nil
}

func newS3Storage(client objectClient, cfg S3Config, observer Observer) *S3Storage {
	if observer == nil {
		observer = nopObserver{}
	}
	expiry := cfg.UploadExpiry
	if expiry <= 0 {
		expiry = DefaultUploadExpiry
	}
	return &S3Storage{
		client:       client,
		region:       cfg.Region,
		tempBucket:   cfg.TempBucket,
		permBucket:   cfg.PermBucket,
		uploadExpiry: expiry,
		observer:     observer,
		now:          time.Now,
	}
}

// =====================================================
// UPLOAD AUTHORIZATION
// =====================================================

// IssueUploadAuthorization presigns a PUT of contentType into the temporary bucket
// under pending/<epoch-millis>_<filename>. No object is created.
func (s *S3Storage) IssueUploadAuthorization(ctx context.Context, filename, contentType string) (*UploadAuthorization, error) {
	if s.tempBucket == "" {
		return nil, fmt.Errorf("temporary bucket: %w", ErrNotConfigured)
	}

	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("filename %q: %w", filename, ErrInvalidKey)
	}

	key := fmt.Sprintf("%s%d_%s", TempPrefix, s.nextStamp(), name)

	start := time.Now()
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.tempBucket, key, s.uploadExpiry,
		url.Values{}, http.Header{"Content-Type": []string{contentType}})
	s.observer.RecordPresign(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	return &UploadAuthorization{URL: u.String(), Key: key}, nil
}

// nextStamp returns epoch millis, bumped past the previous value when two
// requests land in the same millisecond.
func (s *S3Storage) nextStamp() int64 {
	for {
		last := s.lastStamp.Load()
		stamp := s.now().UnixMilli()
		if stamp <= last {
			stamp = last + 1
		}
		if s.lastStamp.CompareAndSwap(last, stamp) {
			return stamp
		}
	}
}

// =====================================================
// PROMOTION
// =====================================================

// PermanentKey maps pending/<x> to public/<x>; other keys are kept as-is.
func PermanentKey(key string) string {
	if strings.HasPrefix(key, TempPrefix) {
		return PublicPrefix + strings.TrimPrefix(key, TempPrefix)
	}
	return key
}

// PublicURL is the virtual-hosted S3 address of key in the permanent bucket.
func (s *S3Storage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.permBucket, s.region, key)
}

// PromoteToPermanent server-side copies key from the temporary bucket to its
// permanent key and returns the public URL. The source is left in place, so
// re-running with the same key overwrites the destination with identical bytes.
func (s *S3Storage) PromoteToPermanent(ctx context.Context, key string) (string, error) {
	if s.tempBucket == "" || s.permBucket == "" {
		return "", fmt.Errorf("promote %s: %w", key, ErrNotConfigured)
	}
	if key == "" {
		return "", ErrInvalidKey
	}

	dest := PermanentKey(key)

	start := time.Now()
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.permBucket, Object: dest},
		minio.CopySrcOptions{Bucket: s.tempBucket, Object: key},
	)
	s.observer.RecordPromote(time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to copy %s to %s/%s: %w", key, s.permBucket, dest, err)
	}

	return s.PublicURL(dest), nil
}

// =====================================================
// CLEANUP
// =====================================================

// DeleteTemporary removes key from the temporary bucket. Deleting a missing
// object is not an error on S3.
func (s *S3Storage) DeleteTemporary(ctx context.Context, key string) error {
	if s.tempBucket == "" {
		return fmt.Errorf("temporary bucket: %w", ErrNotConfigured)
	}
	if !strings.HasPrefix(key, TempPrefix) {
		return fmt.Errorf("refusing to delete %q outside %s: %w", key, TempPrefix, ErrInvalidKey)
	}

	start := time.Now()
	err := s.client.RemoveObject(ctx, s.tempBucket, key, minio.RemoveObjectOptions{})
	s.observer.RecordDelete(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ListTemporary lists objects under pending/ last modified before olderThan.
func (s *S3Storage) ListTemporary(ctx context.Context, olderThan time.Time) ([]TempObject, error) {
	if s.tempBucket == "" {
		return nil, fmt.Errorf("temporary bucket: %w", ErrNotConfigured)
	}

	var out []TempObject
	for obj := range s.client.ListObjects(ctx, s.tempBucket, minio.ListObjectsOptions{
		Prefix:    TempPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", obj.Err)
		}
		if obj.LastModified.Before(olderThan) {
			out = append(out, TempObject{Key: obj.Key, LastModified: obj.LastModified})
		}
	}
	return out, nil
}
