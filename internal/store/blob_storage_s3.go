// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/go-sync-store/internal/config"
)

// s3API is the part of *s3.Client used by the blob storage.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// s3BlobStorage stores a blob as a sequence of chunk objects named
// "<key>/<offset>". S3 has no append, so every Append writes one object and
// reads stitch the chunks back together.
type s3BlobStorage struct {
	client s3API
	bucket string
	mu     sync.Mutex
}

// NewS3BlobStorage builds an S3 client from cfg. A non-empty endpoint
// switches to path-style addressing for S3 compatible stores.
func NewS3BlobStorage(ctx context.Context, cfg config.S3) (BlobStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3BlobStorage(client, cfg.Bucket), nil
}

func newS3BlobStorage(client s3API, bucket string) *s3BlobStorage {
	return &s3BlobStorage{client: client, bucket: bucket}
}

type s3Chunk struct {
	key    string
	offset int64
	size   int64
}

func (s *s3BlobStorage) Append(ctx context.Context, key string, offset int64, data []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, err := s.Size(ctx, key)
	if err != nil {
		return 0, err
	}
	if size != offset {
		return size, fmt.Errorf("%w: offset=%d size=%d", ErrOffsetMismatch, offset, size)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(chunkKey(key, offset)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return 0, fmt.Errorf("put chunk object: %w", err)
	}
	return offset + int64(len(data)), nil
}

func (s *s3BlobStorage) Size(ctx context.Context, key string) (int64, error) {
	chunks, err := s.chunks(ctx, key)
	if err != nil {
		return 0, err
	}
	var size int64
	for _, c := range chunks {
		size += c.size
	}
	return size, nil
}

func (s *s3BlobStorage) ReadRange(ctx context.Context, key string, offset, length int64) ([]byte, error) {
	chunks, err := s.chunks(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrBlobNotFound
	}

	end := offset + length
	out := make([]byte, 0, length)
	for _, c := range chunks {
		chunkEnd := c.offset + c.size
		if chunkEnd <= offset || c.offset >= end || c.size == 0 {
			continue
		}

		from := max(offset, c.offset) - c.offset
		to := min(end, chunkEnd) - c.offset - 1

		resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(c.key),
			Range:  aws.String(fmt.Sprintf("bytes=%d-%d", from, to)),
		})
		if err != nil {
			return nil, fmt.Errorf("get chunk object: %w", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read chunk object: %w", err)
		}
		out = append(out, data...)
	}
	return out, nil
}

func (s *s3BlobStorage) Delete(ctx context.Context, key string) error {
	chunks, err := s.chunks(ctx, key)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(c.key),
		}); err != nil {
			return fmt.Errorf("delete chunk object: %w", err)
		}
	}
	return nil
}

// chunks lists the chunk objects of key ordered by offset.
func (s *s3BlobStorage) chunks(ctx context.Context, key string) ([]s3Chunk, error) {
	prefix := key + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var chunks []s3Chunk
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list chunk objects: %w", err)
		}
		for _, obj := range page.Contents {
			chunk, ok := parseChunk(prefix, obj)
			if ok {
				chunks = append(chunks, chunk)
			}
		}
	}
	return chunks, nil
}

func chunkKey(key string, offset int64) string {
	return fmt.Sprintf("%s/%020d", key, offset)
}

func parseChunk(prefix string, obj types.Object) (s3Chunk, bool) {
	name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
	offset, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return s3Chunk{}, false
	}
	return s3Chunk{key: aws.ToString(obj.Key), offset: offset, size: aws.ToInt64(obj.Size)}, true
}
