// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2ImageStore keeps generated growth-stage images in an R2 bucket so a
// redeploy does not re-spend image-generation quota. It satisfies the image
// cache contract: lookups treat any storage error as a miss, writes are
// best-effort.
type R2ImageStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewR2ImageStore builds the store from the R2_* environment variables.
func NewR2ImageStore() (*R2ImageStore, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	bucket := os.Getenv("R2_BUCKET_NAME")
	if accountID == "" || accessKeyID == "" || accessKeySecret == "" || bucket == "" {
		return nil, fmt.Errorf("R2 credentials not fully configured")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2ImageStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: "plant-images/",
	}, nil
}

// Get fetches the cached data URI for key. Any storage error is a miss.
func (r *R2ImageStore) Get(ctx context.Context, key string) (string, bool) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.prefix + key),
	})
	if err != nil {
		return "", false
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		log.Printf("⚠️ [R2] failed to read cached image %s: %v", key, err)
		return "", false
	}
	return string(data), true
}

// Put stores the data URI under key. Failures are logged and ignored; the
// cache is an optimization, never a correctness dependency.
func (r *R2ImageStore) Put(ctx context.Context, key, dataURI string) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.prefix + key),
		Body:        bytes.NewReader([]byte(dataURI)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		log.Printf("⚠️ [R2] failed to cache image %s: %v", key, err)
	}
}
