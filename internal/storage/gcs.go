package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Client wraps the GCS bucket that holds digital goods. Sellers upload
// through it on manual delivery; buyers only ever receive short-lived signed
// URLs minted after the delivery rules approve the download.
type Client struct {
	bucket string
	client *gcs.Client
}

func NewClient(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Client{bucket: bucket, client: client}, nil
}

func (c *Client) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	w := c.client.Bucket(c.bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", objectPath, err)
	}
	return nil
}

// SignedDownloadURL mints a V4 signed GET URL. The TTL bounds the link, not
// the entitlement; quota and expiry are enforced before this is called.
func (c *Client) SignedDownloadURL(objectPath string, ttl time.Duration) (string, error) {
	url, err := c.client.Bucket(c.bucket).SignedURL(objectPath, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", objectPath, err)
	}
	return url, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
