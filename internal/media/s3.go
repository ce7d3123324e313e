package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds the settings required to reach an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
	// BaseURL is the public origin objects are served from. Defaults to
	// the endpoint (path-style) or the standard S3 virtual host.
	BaseURL string
}

// S3Store hosts media in an S3-compatible bucket.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store builds an S3-backed media store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, data []byte, contentType, folder string) (*UploadResult, error) {
	publicID := folder + "/" + uuid.NewString()
	if !validPublicID(publicID) {
		return nil, ErrInvalidPublicID
	}
	ext := extensionForType(contentType)
	key := objectKey(publicID, ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, timeoutErr(fmt.Errorf("put object: %w", err))
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		PublicID: publicID,
	}, nil
}

// Delete removes the stored object for publicID. The extension is not part
// of the identifier, so each known extension is tried; S3 treats deletes of
// missing keys as success.
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if !validPublicID(publicID) {
		return ErrInvalidPublicID
	}

	for _, ext := range knownExtensions {
		key := objectKey(publicID, ext)
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			log.Printf("media: delete %s failed: %v", key, err)
			return fmt.Errorf("delete object: %w", err)
		}
	}
	return nil
}

func objectKey(publicID, ext string) string {
	return "upload/" + versionSegment + "/" + publicID + ext
}
