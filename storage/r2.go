// Package storage wraps the S3 presign client for Cloudflare R2. It issues
// time-limited GET URLs for stored objects and fetches article bodies
// through them. The signing algorithm itself is the SDK's business.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rayverse/config"
)

// Client issues presigned GET URLs for a single bucket and fetches text
// objects through them.
type Client struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	http      *http.Client
}

// NewClient builds a presigning client against the account's R2 endpoint
// using static credentials from configuration.
func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Client{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.R2Bucket,
		ttl:       cfg.SignedURLTTL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// PresignGet returns a time-limited URL granting read access to objectKey.
func (c *Client) PresignGet(ctx context.Context, objectKey string) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
		// Lets browsers cache the object for as long as the URL lives.
		ResponseCacheControl: aws.String(fmt.Sprintf("max-age=%d, public", int(c.ttl.Seconds()))),
	}, func(o *s3.PresignOptions) {
		o.Expires = c.ttl
	})
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", objectKey, err)
	}
	return req.URL, nil
}

// FetchText retrieves a text object through its signed URL.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch object: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("fetch object: storage responded with %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}
	return string(body), nil
}
