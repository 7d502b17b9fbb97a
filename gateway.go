package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// BucketInfo describes one bucket in the account.
type BucketInfo struct {
	Name    string
	Created time.Time
}

// ObjectInfo is the listing-level view of one object.
type ObjectInfo struct {
	Key      string
	Size     int64
	Modified time.Time
}

// ObjectMeta is the head-level view of one object.
type ObjectMeta struct {
	Size        int64
	Modified    time.Time
	ContentType string
	ETag        string
}

// ListResult is a folded delimiter listing: the common prefixes and the
// objects directly under the queried prefix, in store order.
type ListResult struct {
	CommonPrefixes []string
	Objects        []ObjectInfo
}

// Gateway is the capability set the core needs from the remote store.
// Tests substitute a scripted fake; production uses S3Gateway.
type Gateway interface {
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	ListObjects(ctx context.Context, bucket, prefix, delim string) (*ListResult, error)
	HeadObject(ctx context.Context, bucket, key string) (*ObjectMeta, error)
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	DeleteObject(ctx context.Context, bucket, key string) error
	GetObjectBytes(ctx context.Context, bucket, key string, maxSize int64) ([]byte, error)
	PutObjectBytes(ctx context.Context, bucket, key string, data []byte) error
	DownloadToLocal(ctx context.Context, bucket, key, path string) error
	UploadFromLocal(ctx context.Context, path, bucket, key string) error
	CreateBucket(ctx context.Context, name, region string) error
	DeleteBucket(ctx context.Context, name string) error
}

// S3Gateway implements Gateway against an S3-compatible endpoint.
type S3Gateway struct {
	client *s3.Client
	log    *zap.Logger
}

// NewS3Gateway builds a gateway from the loaded configuration. Path-style
// addressing is forced for MinIO and other S3-compatible services.
func NewS3Gateway(ctx context.Context, cfg *Config, log *zap.Logger) (*S3Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, &GatewayError{Op: "configure", Err: err}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.EndpointURL())
		o.UsePathStyle = true
	})

	return &S3Gateway{client: client, log: log}, nil
}

func (g *S3Gateway) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	out, err := g.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, &GatewayError{Op: "list buckets", Err: err}
	}

	buckets := make([]BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		info := BucketInfo{Name: aws.ToString(b.Name)}
		if b.CreationDate != nil {
			info.Created = *b.CreationDate
		}
		buckets = append(buckets, info)
	}
	return buckets, nil
}

func (g *S3Gateway) ListObjects(ctx context.Context, bucket, prefix, delim string) (*ListResult, error) {
	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delim),
	})

	res := &ListResult{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &GatewayError{Op: "list objects", Bucket: bucket, Key: prefix, Err: err}
		}
		for _, cp := range page.CommonPrefixes {
			res.CommonPrefixes = append(res.CommonPrefixes, aws.ToString(cp.Prefix))
		}
		for _, obj := range page.Contents {
			info := ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.Modified = *obj.LastModified
			}
			res.Objects = append(res.Objects, info)
		}
	}
	return res, nil
}

func (g *S3Gateway) HeadObject(ctx context.Context, bucket, key string) (*ObjectMeta, error) {
	out, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, &GatewayError{Op: "head", Bucket: bucket, Key: key, Err: ErrNotFound}
		}
		return nil, &GatewayError{Op: "head", Bucket: bucket, Key: key, Err: err}
	}

	meta := &ObjectMeta{
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}
	if out.LastModified != nil {
		meta.Modified = *out.LastModified
	}
	return meta, nil
}

func (g *S3Gateway) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := g.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(srcBucket + "/" + srcKey),
	})
	if err != nil {
		return &GatewayError{Op: "copy", Bucket: srcBucket, Key: srcKey, Err: err}
	}
	g.log.Info("copied object",
		zap.String("from", srcBucket+"/"+srcKey),
		zap.String("to", dstBucket+"/"+dstKey))
	return nil
}

func (g *S3Gateway) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &GatewayError{Op: "delete", Bucket: bucket, Key: key, Err: err}
	}
	g.log.Info("deleted object", zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

// GetObjectBytes fetches an object into memory. Objects above maxSize
// are refused with TooLargeError before any data transfer starts.
func (g *S3Gateway) GetObjectBytes(ctx context.Context, bucket, key string, maxSize int64) ([]byte, error) {
	meta, err := g.HeadObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if meta.Size > maxSize {
		return nil, &TooLargeError{Size: meta.Size, Limit: maxSize}
	}

	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &GatewayError{Op: "get", Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &GatewayError{Op: "read", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}

func (g *S3Gateway) PutObjectBytes(ctx context.Context, bucket, key string, data []byte) error {
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &GatewayError{Op: "put", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

func (g *S3Gateway) DownloadToLocal(ctx context.Context, bucket, key, path string) error {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &GatewayError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &LocalIOError{Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &LocalIOError{Path: path, Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return &LocalIOError{Path: path, Err: err}
	}
	g.log.Info("downloaded object",
		zap.String("bucket", bucket), zap.String("key", key), zap.String("path", path))
	return nil
}

func (g *S3Gateway) UploadFromLocal(ctx context.Context, path, bucket, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LocalIOError{Path: path, Err: err}
	}
	defer f.Close()

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return &GatewayError{Op: "upload", Bucket: bucket, Key: key, Err: err}
	}
	g.log.Info("uploaded object",
		zap.String("path", path), zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

func (g *S3Gateway) CreateBucket(ctx context.Context, name, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	if region != "" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := g.client.CreateBucket(ctx, input); err != nil {
		return &GatewayError{Op: "create bucket", Bucket: name, Err: err}
	}
	g.log.Info("created bucket", zap.String("bucket", name))
	return nil
}

func (g *S3Gateway) DeleteBucket(ctx context.Context, name string) error {
	_, err := g.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
	if err != nil {
		return &GatewayError{Op: "delete bucket", Bucket: name, Err: err}
	}
	g.log.Info("deleted bucket", zap.String("bucket", name))
	return nil
}
