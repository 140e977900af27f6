// Package blobstore hands out presigned S3 URLs for audio payloads. The
// server never proxies media bytes.
package blobstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/matchbox/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AudioContentType is the media type clips are uploaded with.
const AudioContentType = common.AudioContentType

type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	PresignTTL   time.Duration
}

// Presigned is a time-limited URL for one object.
type Presigned struct {
	URL       string
	ExpiresAt time.Time
}

type S3Store struct {
	bucket  string
	ttl     time.Duration
	presign *s3.PresignClient
	now     func() time.Time
}

// NewS3Store builds the presign client from static credentials. Nothing is
// contacted until a URL is used.
func NewS3Store(ctx context.Context, c Config) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			// MinIO and other self-hosted endpoints expect path-style addressing
			o.UsePathStyle = true
		}
	})

	ttl := c.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Store{
		bucket:  c.Bucket,
		ttl:     ttl,
		presign: s3.NewPresignClient(client),
		now:     time.Now,
	}, nil
}

// AudioKey is the content-addressed storage key of a clip for a record.
func AudioKey(recordID string, digest []byte) string {
	return fmt.Sprintf("audio/%s/%s.webm", recordID, hex.EncodeToString(digest))
}

func (s *S3Store) PresignPut(ctx context.Context, key string) (Presigned, error) {
	expires := s.now().Add(s.ttl)
	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(AudioContentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return Presigned{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return Presigned{URL: req.URL, ExpiresAt: expires}, nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string) (Presigned, error) {
	expires := s.now().Add(s.ttl)
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return Presigned{}, fmt.Errorf("presign get %s: %w", key, err)
	}
	return Presigned{URL: req.URL, ExpiresAt: expires}, nil
}
