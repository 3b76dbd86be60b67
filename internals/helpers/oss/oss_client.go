package oss

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"

	"tutorhub_backend/internals/constants"
)

// Client wraps the OSS bucket used for generated worksheets, past papers and
// revision-note media. Key layout: <prefix>/<random>-<name>.<ext>.
type Client struct {
	bucket     *alioss.Bucket
	bucketName string
	endpoint   string
}

// NewFromEnv builds the client from OSS_ENDPOINT / OSS_ACCESS_KEY_ID /
// OSS_ACCESS_KEY_SECRET / OSS_BUCKET.
func NewFromEnv() (*Client, error) {
	endpoint := env("OSS_ENDPOINT")
	keyID := env("OSS_ACCESS_KEY_ID")
	keySecret := env("OSS_ACCESS_KEY_SECRET")
	bucketName := env("OSS_BUCKET")
	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("missing OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET")
	}

	cli, err := alioss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, err
	}
	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return &Client{bucket: bucket, bucketName: bucketName, endpoint: endpoint}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ObjectKey builds a collision-safe key under a prefix.
func ObjectKey(prefix, name, ext string) string {
	base := unsafeKeyChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s/%s-%s%s", strings.Trim(prefix, "/"), randomHex(8), base, ext)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// UploadBytes stores raw bytes under key.
func (c *Client) UploadBytes(key string, data []byte, contentType string) error {
	return c.bucket.PutObject(key, bytes.NewReader(data), alioss.ContentType(contentType))
}

// UploadPDF stores a rendered PDF under the worksheets prefix and returns
// the object key.
func (c *Client) UploadPDF(name string, data []byte) (string, error) {
	key := ObjectKey("worksheets", name, ".pdf")
	if err := c.UploadBytes(key, data, "application/pdf"); err != nil {
		return "", err
	}
	return key, nil
}

// SignURL returns a short-lived signed GET URL for an object key.
func (c *Client) SignURL(key string, ttl time.Duration) (string, error) {
	return c.bucket.SignURL(key, alioss.HTTPGet, int64(ttl.Seconds()))
}

func (c *Client) Delete(key string) error {
	return c.bucket.DeleteObject(key)
}

// Owns reports whether a stored URL (or bare key) points into our bucket.
// Public/external URLs must pass through reads unchanged.
func (c *Client) Owns(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Bare keys were written by us.
		return !strings.Contains(raw, "://")
	}
	return strings.Contains(u.Host, c.bucketName)
}

// KeyFromURL extracts the object key from one of our URLs; bare keys come
// back as-is.
func (c *Client) KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Path, "/")
}

// SignIfOwn swaps a stored URL for a fresh signed one when it belongs to our
// bucket; anything else is returned untouched.
func (c *Client) SignIfOwn(raw string) string {
	if !c.Owns(raw) {
		return raw
	}
	signed, err := c.SignURL(c.KeyFromURL(raw), constants.SignedURLTTL)
	if err != nil {
		return raw
	}
	return signed
}
