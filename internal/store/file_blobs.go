// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
)

var bucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// fileBlobStorage is the [adapter.BlobStorage] of the direct backend: each
// bucket is a directory under root and objects are plain files. Public
// URLs point at publicBaseURL, which the HTTP surface serves from root.
type fileBlobStorage struct {
	root          string
	publicBaseURL string
}

// NewFileBlobStorage stores blobs under root, creating it when missing.
func NewFileBlobStorage(root, publicBaseURL string) (adapter.BlobStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &fileBlobStorage{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// CreateBucket implements [adapter.BlobStorage]. Every bucket is public.
func (s *fileBlobStorage) CreateBucket(ctx context.Context, name string, _ bool) error {
	if !bucketName.MatchString(name) {
		return fmt.Errorf("create bucket %q: %w", name, adapter.ErrBadRequest)
	}

	err := os.Mkdir(filepath.Join(s.root, name), 0o755)
	switch {
	case errors.Is(err, fs.ErrExist):
		return adapter.ErrBucketExists
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "fileBlobStorage.CreateBucket").Str("bucket", name).Msg("error creating bucket")
		return fmt.Errorf("create bucket %q: %w: %w", name, adapter.ErrInternalServerError, err)
	}
	return nil
}

// Upload implements [adapter.BlobStorage]. Existing objects are never
// overwritten.
func (s *fileBlobStorage) Upload(ctx context.Context, bucket, objectPath string, body io.Reader, _ string) error {
	target, err := s.objectFile(bucket, objectPath)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if _, err = os.Stat(filepath.Join(s.root, bucket)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: bucket %q: %w", bucket, adapter.ErrNotFound)
	}
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("upload: %w: %w", adapter.ErrInternalServerError, err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("upload %s/%s: %w", bucket, objectPath, adapter.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("upload: %w: %w", adapter.ErrInternalServerError, err)
	}

	if _, err = io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(target)
		logger.FromContext(ctx).Err(err).Str("func", "fileBlobStorage.Upload").Str("bucket", bucket).Msg("error writing object")
		return fmt.Errorf("upload: %w: %w", adapter.ErrInternalServerError, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("upload: %w: %w", adapter.ErrInternalServerError, err)
	}
	return nil
}

// PublicURL implements [adapter.BlobStorage].
func (s *fileBlobStorage) PublicURL(bucket, objectPath string) string {
	segments := strings.Split(strings.Trim(objectPath, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// Remove implements [adapter.BlobStorage]. Missing objects are ignored.
func (s *fileBlobStorage) Remove(_ context.Context, bucket string, paths ...string) error {
	var errs []error
	for _, p := range paths {
		target, err := s.objectFile(bucket, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s/%s: %w", bucket, p, err))
		}
	}
	return errors.Join(errs...)
}

// objectFile resolves an object path inside bucket, rejecting paths that
// escape it.
func (s *fileBlobStorage) objectFile(bucket, objectPath string) (string, error) {
	if !bucketName.MatchString(bucket) {
		return "", fmt.Errorf("bucket %q: %w", bucket, adapter.ErrBadRequest)
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("object path %q: %w", objectPath, adapter.ErrBadRequest)
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
