package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketStats summarizes a bucket's contents.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// BucketClient wraps a MinIO client for bucket maintenance from the CLI.
type BucketClient struct {
	client     *minio.Client
	bucketName string
}

// NewBucketClient creates a maintenance client.
func NewBucketClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*BucketClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &BucketClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// ListObjects prints every object under the prefix.
func (b *BucketClient) ListObjects(prefix string) error {
	ctx := context.Background()

	exists, err := b.client.BucketExists(ctx, b.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", b.bucketName)
	}

	objectCh := b.client.ListObjects(ctx, b.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	count := 0
	for object := range objectCh {
		if object.Err != nil {
			return fmt.Errorf("error listing objects: %w", object.Err)
		}
		fmt.Printf("%-60s %10.2f KB  %s\n", object.Key, float64(object.Size)/1024, object.LastModified.Format(time.RFC3339))
		count++
	}
	fmt.Printf("\n%d objects\n", count)
	return nil
}

// Stats collects object count, total size, and last modification time.
func (b *BucketClient) Stats() (*BucketStats, error) {
	ctx := context.Background()

	stats := &BucketStats{}
	objectCh := b.client.ListObjects(ctx, b.bucketName, minio.ListObjectsOptions{Recursive: true})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}
	}
	return stats, nil
}

// DeletePrefix removes every object under the prefix.
func (b *BucketClient) DeletePrefix(prefix string) error {
	ctx := context.Background()

	objectCh := b.client.ListObjects(ctx, b.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	deleted := 0
	for object := range objectCh {
		if object.Err != nil {
			return fmt.Errorf("error listing objects for delete: %w", object.Err)
		}
		if err := b.client.RemoveObject(ctx, b.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", object.Key, err)
		}
		deleted++
	}
	fmt.Printf("Deleted %d objects under prefix %q\n", deleted, prefix)
	return nil
}
