package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the slice of *s3.Client used by S3Store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3 bucket with public-read objects served from
// publicBase.
type S3Store struct {
	client     s3API
	bucket     string
	publicBase string
}

// NewS3Store loads the default AWS config (env, shared files, instance role).
// When publicBase is empty the virtual-hosted bucket URL is used.
func NewS3Store(ctx context.Context, bucket, region, publicBase string) (*S3Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage: s3 bucket not set")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: load default AWS config: %w", err)
	}
	if region != "" {
		awsCfg.Region = region
	}
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}
	return &S3Store{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if s == nil || s.client == nil {
		return ErrNoStore
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("storage: s3 put %q: %w", cleanKey, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	if s == nil {
		return ""
	}
	return publicURL(s.publicBase, key)
}

func (s *S3Store) PathFromURL(rawURL string) (string, bool) {
	if s == nil {
		return "", false
	}
	return keyFromURL(s.publicBase, rawURL)
}

// Remove deletes each key; keys already gone are skipped.
func (s *S3Store) Remove(ctx context.Context, keys []string) error {
	if s == nil || s.client == nil {
		return ErrNoStore
	}
	var errs []error
	for _, key := range keys {
		cleanKey, err := sanitizeKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(cleanKey),
		})
		if err != nil && !isS3NotFound(err) {
			errs = append(errs, fmt.Errorf("storage: s3 delete %q: %w", cleanKey, err))
		}
	}
	return errors.Join(errs...)
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}

var _ ObjectStore = (*S3Store)(nil)
