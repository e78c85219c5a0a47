package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
)

// S3API is the part of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options describes how to reach an S3-compatible endpoint.
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds an S3 client with static credentials. A non-empty
// BaseEndpoint switches to path-style addressing, which MinIO expects.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	optFns := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	}), nil
}

// S3Store keeps each document as the object <prefix><collection>/<key>.json.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) objectKey(collection, key string) string {
	return s.prefix + collection + "/" + key + fileExt
}

func (s *S3Store) Create(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(collection, key)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("s3 store: put %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *S3Store) Read(ctx context.Context, collection, key string, out any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("s3 store: get %s/%s: %w", collection, key, err)
	}
	defer obj.Body.Close()

	b, err := io.ReadAll(obj.Body)
	if err != nil {
		return fmt.Errorf("s3 store: read %s/%s: %w", collection, key, err)
	}
	return decode(b, out)
}

func (s *S3Store) Update(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.exists(ctx, collection, key); err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(collection, key)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 store: put %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, collection, key string) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	if err := s.exists(ctx, collection, key); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		return fmt.Errorf("s3 store: delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, collection string) ([]string, error) {
	if err := ValidateKey(collection); err != nil {
		return nil, err
	}

	prefix := s.prefix + collection + "/"
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	keys := []string{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 store: list %s: %w", collection, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, fileExt) {
				continue
			}
			keys = append(keys, strings.TrimSuffix(name, fileExt))
		}
	}
	return keys, nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) exists(ctx context.Context, collection, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("s3 store: head %s/%s: %w", collection, key, err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
