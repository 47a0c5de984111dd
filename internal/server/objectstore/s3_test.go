package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})
}

func TestPut_SendsPublicObject(t *testing.T) {
	stubSeams(t)

	var gotOpts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	var in *s3.PutObjectInput
	var body []byte
	calls := 0
	putObject = func(_ *s3.Client, _ context.Context, p *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		calls++
		in = p
		body, _ = io.ReadAll(p.Body)
		return &s3.PutObjectOutput{}, nil
	}

	st := NewS3Store(Options{AccessKey: "a", SecretKey: "b", Bucket: "posters", Region: "us-east-1", BaseEndpoint: "http://127.0.0.1:9000"})
	require.NoError(t, st.Put(context.Background(), "ABC.png", "image/png", []byte("img")))
	require.NoError(t, st.Put(context.Background(), "DEF.png", "image/png", []byte("img2")))

	assert.Equal(t, 2, calls)
	assert.Equal(t, "posters", aws.ToString(in.Bucket))
	assert.Equal(t, "DEF.png", aws.ToString(in.Key))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
	assert.Equal(t, types.ObjectCannedACLPublicRead, in.ACL)
	assert.Equal(t, "img2", string(body))
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
}

func TestPut_ConfigError(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	st := NewS3Store(Options{Bucket: "b"})
	err := st.Put(context.Background(), "k", "image/png", nil)
	assert.ErrorContains(t, err, "no config")
}

func TestPut_UploadError(t *testing.T) {
	stubSeams(t)

	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	st := NewS3Store(Options{Bucket: "b", Region: "us-east-1"})
	err := st.Put(context.Background(), "k.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "k.png")
	assert.ErrorContains(t, err, "access denied")
}
