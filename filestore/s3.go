package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores files as objects under bucket/prefix.
type S3 struct {
	api    ObjectAPI
	bucket string
	prefix string
}

func NewS3(api ObjectAPI, bucket, prefix string) *S3 {
	return &S3{api: api, bucket: bucket, prefix: prefix}
}

// NewS3FromEnv builds an S3 client for region, using a custom endpoint
// (LocalStack, MinIO) with path-style addressing when endpoint is set.
func NewS3FromEnv(ctx context.Context, region, endpoint, bucket, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 storage backend")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3(client, bucket, prefix), nil
}

func (s *S3) key(name string) string { return s.prefix + name }

// Save uploads r as a new object. Non-seekable readers are buffered first
// because payload signing needs to rewind the body; callers bound the size.
func (s *S3) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	name := NewName(ext)
	input := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.key(name)),
		Body:                 body,
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	return name, nil
}

func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, name string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}
