package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/olmmcc/union/internal/errs"
)

// Minio implements Store on a MinIO/S3 bucket. Namespaces are key
// prefixes: users/<name>/, users/<name>/<gallery>/, images live at
// users/<name>/<gallery>/<image>. Static assets live under static/.
type Minio struct {
	client *minio.Client
	bucket string
}

// Options configures the MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinio connects to MinIO and ensures the bucket exists.
func NewMinio(ctx context.Context, opts Options) (*Minio, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket: %w", err)
		}
	}
	return &Minio{client: client, bucket: opts.Bucket}, nil
}

// EnsureUser writes the user's namespace marker object.
func (m *Minio) EnsureUser(ctx context.Context, username string) error {
	return m.putMarker(ctx, path.Join("users", username)+"/")
}

// EnsureGallery writes the gallery's namespace marker object.
func (m *Minio) EnsureGallery(ctx context.Context, username, gallery string) error {
	return m.putMarker(ctx, path.Join("users", username, gallery)+"/")
}

// object stores on S3 have no directories; a zero-byte marker object under
// the prefix stands in for one.
func (m *Minio) putMarker(ctx context.Context, key string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	return err
}

// PutImage stores decoded image bytes.
func (m *Minio) PutImage(ctx context.Context, username, gallery, name string, data []byte) error {
	key := path.Join("users", username, gallery, name)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	return err
}

// GetImage fetches stored image bytes.
func (m *Minio) GetImage(ctx context.Context, username, gallery, name string) ([]byte, error) {
	return m.read(ctx, path.Join("users", username, gallery, name))
}

// GetStatic fetches a site asset under the static/ prefix.
func (m *Minio) GetStatic(ctx context.Context, p string) ([]byte, error) {
	key, ok := staticKey(p)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return m.read(ctx, key)
}

// staticKey maps an asset path to its object key. path.Join collapses
// ".." segments, so a traversal could resolve outside the static/ prefix
// and into private image keys; such paths get no key at all.
func staticKey(p string) (string, bool) {
	key := path.Join("static", p)
	if key != "static" && !strings.HasPrefix(key, "static/") {
		return "", false
	}
	return key, true
}

func (m *Minio) read(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
