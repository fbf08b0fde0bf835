package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type fileService struct {
	blobs adapter.BlobStorage
	newID func() string
}

// NewFileService uploads to public buckets of blobs. There is no mirror
// fallback: errors reach the caller.
func NewFileService(blobs adapter.BlobStorage) FileService {
	return &fileService{blobs: blobs, newID: utils.NewLocalID}
}

// Upload stores body in bucket under "<time-based id>_<name>" and returns
// where it is reachable. The bucket is created on first use.
func (s *fileService) Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (models.StoredFile, error) {
	if bucket == "" || body == nil {
		return models.StoredFile{}, ErrInvalidDataProvided
	}

	if err := s.blobs.CreateBucket(ctx, bucket, true); err != nil && !errors.Is(err, adapter.ErrBucketExists) {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileService.Upload").
			Str("bucket", bucket).
			Msg("could not create bucket")
	}

	objectPath := s.newID() + "_" + cleanFileName(name)
	counter := &countingReader{r: body}
	if err := s.blobs.Upload(ctx, bucket, objectPath, counter, contentType); err != nil {
		return models.StoredFile{}, fmt.Errorf("upload %s/%s: %w", bucket, objectPath, err)
	}

	return models.StoredFile{
		Bucket:      bucket,
		Path:        objectPath,
		PublicURL:   s.blobs.PublicURL(bucket, objectPath),
		ContentType: contentType,
		Size:        counter.n,
	}, nil
}

func (s *fileService) Remove(ctx context.Context, bucket string, paths ...string) error {
	if bucket == "" || len(paths) == 0 {
		return ErrInvalidDataProvided
	}
	if err := s.blobs.Remove(ctx, bucket, paths...); err != nil {
		return fmt.Errorf("remove from %s: %w", bucket, err)
	}
	return nil
}

// cleanFileName keeps the base name of name with unsafe characters
// replaced by "_".
func cleanFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
