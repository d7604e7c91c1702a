package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore keeps images in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
}

// NewGCSStore opens a client with application default credentials, or with
// credentialsFile when set.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage: gcs bucket not set")
	}
	opts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket), name: bucket}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if s == nil || s.bucket == nil {
		return ErrNoStore
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	w := s.bucket.Object(cleanKey).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("storage: gcs write %q: %w", cleanKey, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: gcs close %q: %w", cleanKey, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	if s == nil {
		return ""
	}
	return publicURL(s.base(), key)
}

func (s *GCSStore) PathFromURL(rawURL string) (string, bool) {
	if s == nil {
		return "", false
	}
	return keyFromURL(s.base(), rawURL)
}

func (s *GCSStore) Remove(ctx context.Context, keys []string) error {
	if s == nil || s.bucket == nil {
		return ErrNoStore
	}
	var errs []error
	for _, key := range keys {
		cleanKey, err := sanitizeKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.bucket.Object(cleanKey).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("storage: gcs delete %q: %w", cleanKey, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the client.
func (s *GCSStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *GCSStore) base() string {
	return gcsPublicHost + "/" + s.name
}

var _ ObjectStore = (*GCSStore)(nil)
