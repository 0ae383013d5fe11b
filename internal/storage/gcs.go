// Package storage keeps product image binaries in Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Object is a stored binary: its public URL and the id used to delete it.
type Object struct {
	URL      string
	PublicID string
}

// GCSStore uploads objects to a single bucket under Prefix.
//
// Objects are expected to be publicly readable through bucket-level IAM
// (uniform access); no per-object ACLs are set.
type GCSStore struct {
	Client        *storage.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewGCSStore(client *storage.Client, bucket, prefix, publicBaseURL string) *GCSStore {
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com"
	}
	return &GCSStore{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		Prefix:        strings.Trim(strings.TrimSpace(prefix), "/"),
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *GCSStore) bucket() (*storage.BucketHandle, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("gcs store: storage client is nil")
	}
	if s.Bucket == "" {
		return nil, errors.New("gcs store: bucket is empty")
	}
	return s.Client.Bucket(s.Bucket), nil
}

// Put uploads data as a new object and returns where it can be fetched.
func (s *GCSStore) Put(ctx context.Context, data []byte, contentType string) (*Object, error) {
	bh, err := s.bucket()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "image storage unavailable")
	}

	name := path.Join(s.Prefix, time.Now().UTC().Format("20060102"), uuid.NewString()+extensionFor(contentType))
	w := bh.Object(name).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	w.CacheControl = "public, max-age=31536000"
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "image upload failed")
	}
	if err := w.Close(); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "image upload failed")
	}

	return &Object{URL: s.publicURL(name), PublicID: name}, nil
}

// Remove deletes the object. A missing object is not an error.
func (s *GCSStore) Remove(ctx context.Context, publicID string) error {
	bh, err := s.bucket()
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "image storage unavailable")
	}
	obj := strings.TrimSpace(publicID)
	if obj == "" {
		return nil
	}
	if err := bh.Object(obj).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return appErr.Wrap(err, appErr.CodeUnavailable, fmt.Sprintf("delete image object %s failed", obj))
	}
	return nil
}

func (s *GCSStore) publicURL(name string) string {
	return s.PublicBaseURL + "/" + s.Bucket + "/" + name
}

func extensionFor(contentType string) string {
	m := mimetype.Lookup(strings.ToLower(strings.TrimSpace(contentType)))
	if m == nil {
		return ""
	}
	return m.Extension()
}

// Disabled is used when no bucket is configured; every call fails as unavailable.
type Disabled struct{}

func (Disabled) Put(context.Context, []byte, string) (*Object, error) {
	return nil, appErr.New(appErr.CodeUnavailable, "image storage is not configured")
}

func (Disabled) Remove(context.Context, string) error {
	return appErr.New(appErr.CodeUnavailable, "image storage is not configured")
}
