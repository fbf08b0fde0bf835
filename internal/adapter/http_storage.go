package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// storageRequest prefers the service key so that bucket management works
// for any signed-in admin.
func (h *httpRemote) storageRequest(ctx context.Context) (*resty.Request, error) {
	if h.serviceKey != "" {
		return h.serviceRequest(ctx)
	}
	return h.userRequest(ctx)
}

// CreateBucket implements [BlobStorage].
func (h *httpRemote) CreateBucket(ctx context.Context, name string, public bool) error {
	req, err := h.storageRequest(ctx)
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}

	resp, err := req.
		SetBody(map[string]any{"id": name, "name": name, "public": public}).
		Post(storagePrefix + "/bucket")
	if err != nil {
		return transportError("create bucket "+name, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrConflict) || strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return fmt.Errorf("create bucket %s: %w", name, ErrBucketExists)
		}
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	return nil
}

// Upload implements [BlobStorage].
func (h *httpRemote) Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string) error {
	req, err := h.storageRequest(ctx)
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := req.
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(body).
		Post(objectPath(bucket, path))
	if err != nil {
		return transportError("upload "+bucket+"/"+path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

// PublicURL implements [BlobStorage].
func (h *httpRemote) PublicURL(bucket, path string) string {
	return h.baseURL + storagePrefix + "/object/public/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

// Remove implements [BlobStorage].
func (h *httpRemote) Remove(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	req, err := h.storageRequest(ctx)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", bucket, err)
	}

	resp, err := req.
		SetBody(map[string][]string{"prefixes": paths}).
		Delete(storagePrefix + "/object/" + url.PathEscape(bucket))
	if err != nil {
		return transportError("remove from "+bucket, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("remove from %s: %w", bucket, err)
	}
	return nil
}

func objectPath(bucket, path string) string {
	return storagePrefix + "/object/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
