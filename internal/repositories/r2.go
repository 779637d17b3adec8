package repositories

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Archive stores journal exports in a Cloudflare R2 (S3-compatible) bucket.
type R2Archive struct {
	client *s3.Client
	bucket string
}

// NewR2Archive initializes the R2 client using static credentials and custom endpoint.
func NewR2Archive(accessKey, secretKey, accountID, bucketName, region string) *R2Archive {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	slog.Info("Successfully initialized R2 client", slog.String("bucket", bucketName))

	return &R2Archive{client: client, bucket: bucketName}
}

// ExportKey is the object key of a user's export taken at t. nonce must be
// random; the key appears in the presigned URL.
func ExportKey(userID string, t time.Time, nonce string) string {
	return fmt.Sprintf("exports/%s/%s-%s.json", userID, t.UTC().Format("20060102T150405Z"), nonce)
}

// Put uploads a JSON body under key.
func (a *R2Archive) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// PresignGet creates a presigned URL for downloading key.
func (a *R2Archive) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(a.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
