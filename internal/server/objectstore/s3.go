// Package objectstore uploads public assets to S3 or an S3-compatible backend
// such as MinIO.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// Uploader stores an object under key and makes it publicly readable.
type Uploader interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

type Options struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store is an Uploader backed by a lazily created S3 client.
type S3Store struct {
	opts Options

	once   sync.Once
	client *s3.Client
	err    error
}

func NewS3Store(opts Options) *S3Store {
	return &S3Store{opts: opts}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	s.once.Do(func() {
		cfg, err := loadDefaultAWSConfig(ctx,
			config.WithRegion(s.opts.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				s.opts.AccessKey,
				s.opts.SecretKey,
				"",
			)))
		if err != nil {
			s.err = fmt.Errorf("aws config: %w", err)
			return
		}

		s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
			if s.opts.BaseEndpoint != "" {
				o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
				o.UsePathStyle = true
			}
		})
	})
	return s.client, s.err
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
