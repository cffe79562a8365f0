package assets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoImage is returned for an empty image key.
var ErrNoImage = errors.New("assets: empty image key")

// ImageResolver resolves a product image key to a URL the browser can load.
type ImageResolver interface {
	ImageURL(ctx context.Context, key string) (string, error)
}

// StaticImages serves images from a fixed URL prefix.
type StaticImages struct {
	prefix string
}

// NewStaticImages creates a resolver that joins prefix and key.
func NewStaticImages(prefix string) *StaticImages {
	return &StaticImages{prefix: strings.TrimRight(prefix, "/") + "/"}
}

// ImageURL implements ImageResolver.
func (s *StaticImages) ImageURL(_ context.Context, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrNoImage
	}
	return s.prefix + key, nil
}

// Presigner is the subset of s3.PresignClient used for images.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config locates the image bucket.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// NewS3Client builds an S3 client from static credentials. Endpoint is set for
// S3-compatible stores such as MinIO.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
				Source:          "storefront config",
			}, nil
		}),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

type presignedURL struct {
	url     string
	expires time.Time
}

// S3Images hands out presigned GET URLs for objects in an S3 bucket.
// URLs are cached and reused until half their lifetime has passed. Expired
// entries are dropped whenever a new URL is signed.
type S3Images struct {
	presigner Presigner
	bucket    string
	prefix    string
	urlExpiry time.Duration
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]presignedURL
}

// NewS3Images creates an S3 image resolver.
//
//	client := assets.NewS3Client(cfg)
//	images := assets.NewS3Images(s3.NewPresignClient(client), cfg.Bucket, cfg.Prefix)
func NewS3Images(presigner Presigner, bucket, prefix string) *S3Images {
	return &S3Images{
		presigner: presigner,
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: 15 * time.Minute,
		now:       time.Now,
		cache:     make(map[string]presignedURL),
	}
}

// WithURLExpiry sets how long presigned URLs are valid.
func (s *S3Images) WithURLExpiry(d time.Duration) *S3Images {
	if d > 0 {
		s.urlExpiry = d
	}
	return s
}

// ImageURL implements ImageResolver.
func (s *S3Images) ImageURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrNoImage
	}
	objectKey := s.prefix + key

	now := s.now()
	s.mu.Lock()
	cached, ok := s.cache[objectKey]
	s.mu.Unlock()
	if ok && now.Before(cached.expires.Add(-s.urlExpiry/2)) {
		return cached.url, nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	for k, v := range s.cache {
		if !now.Before(v.expires) {
			delete(s.cache, k)
		}
	}
	s.cache[objectKey] = presignedURL{url: req.URL, expires: now.Add(s.urlExpiry)}
	s.mu.Unlock()
	return req.URL, nil
}
