package export

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/nayidisha/nayidisha-client/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	uploadToPresignedURL = netx.UploadToPresignedURL
)

// S3Config selects the bucket reports are published to. Endpoint, AccessKey
// and SecretKey are optional; without keys the default AWS credential chain
// is used.
type S3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	LinkTTL   time.Duration
}

// S3Uploader publishes generated reports through presigned URLs.
type S3Uploader struct {
	presign *s3.PresignClient
	http    *http.Client
	cfg     S3Config
	log     logging.Logger
}

func NewS3Uploader(ctx context.Context, cfg S3Config, log logging.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 15 * time.Minute
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		presign: s3.NewPresignClient(client),
		http:    &http.Client{Timeout: time.Minute},
		cfg:     cfg,
		log:     log,
	}, nil
}

// StorageKey places name under the configured prefix in a dated folder.
func (u *S3Uploader) StorageKey(name string, now time.Time) string {
	return path.Join(u.cfg.Prefix, fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.NewString()+"-"+name)
}

// Upload stores data and returns a time limited download link.
func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	bucket := u.cfg.Bucket
	key := u.StorageKey(name, time.Now())

	put, err := presignPutObject(u.presign, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(u.cfg.LinkTTL))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, u.http, put.URL, contentType, data); err != nil {
		return "", err
	}

	get, err := presignGetObject(u.presign, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(u.cfg.LinkTTL))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	u.log.Info(ctx, "report uploaded", "bucket", bucket, "key", key, "bytes", len(data))
	return get.URL, nil
}
