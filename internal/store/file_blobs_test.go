package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
)

func newTestBlobs(t *testing.T) (adapter.BlobStorage, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "files")
	blobs, err := NewFileBlobStorage(root, "http://localhost:8080/files/")
	if err != nil {
		t.Fatalf("NewFileBlobStorage: %v", err)
	}
	return blobs, root
}

func TestFileBlobStorage_CreateBucket(t *testing.T) {
	blobs, root := newTestBlobs(t)
	ctx := context.Background()

	if err := blobs.CreateBucket(ctx, "documents", true); err != nil {
		t.Fatalf("CreateBucket error: %v", err)
	}
	if st, err := os.Stat(filepath.Join(root, "documents")); err != nil || !st.IsDir() {
		t.Fatalf("bucket directory missing: %v", err)
	}

	if err := blobs.CreateBucket(ctx, "documents", true); !errors.Is(err, adapter.ErrBucketExists) {
		t.Fatalf("second CreateBucket error = %v, want ErrBucketExists", err)
	}
	if err := blobs.CreateBucket(ctx, "../escape", true); !errors.Is(err, adapter.ErrBadRequest) {
		t.Fatalf("CreateBucket with bad name error = %v, want ErrBadRequest", err)
	}
}

func TestFileBlobStorage_UploadAndRemove(t *testing.T) {
	blobs, root := newTestBlobs(t)
	ctx := context.Background()
	_ = blobs.CreateBucket(ctx, "documents", true)

	if err := blobs.Upload(ctx, "documents", "2026/manual.pdf", strings.NewReader("%PDF"), "application/pdf"); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "documents", "2026", "manual.pdf"))
	if err != nil || string(data) != "%PDF" {
		t.Fatalf("stored object = (%q, %v)", data, err)
	}

	err = blobs.Upload(ctx, "documents", "2026/manual.pdf", strings.NewReader("again"), "application/pdf")
	if !errors.Is(err, adapter.ErrConflict) {
		t.Fatalf("duplicate Upload error = %v, want ErrConflict", err)
	}

	if err = blobs.Remove(ctx, "documents", "2026/manual.pdf", "missing.pdf"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err = os.Stat(filepath.Join(root, "documents", "2026", "manual.pdf")); !os.IsNotExist(err) {
		t.Fatalf("object still present after Remove")
	}
}

func TestFileBlobStorage_UploadRejects(t *testing.T) {
	blobs, _ := newTestBlobs(t)
	ctx := context.Background()

	if err := blobs.Upload(ctx, "nobucket", "a.txt", strings.NewReader("x"), ""); !errors.Is(err, adapter.ErrNotFound) {
		t.Fatalf("Upload to missing bucket error = %v, want ErrNotFound", err)
	}

	_ = blobs.CreateBucket(ctx, "documents", true)
	if err := blobs.Upload(ctx, "documents", "../../etc/passwd", strings.NewReader("x"), ""); !errors.Is(err, adapter.ErrBadRequest) {
		t.Fatalf("Upload with traversal error = %v, want ErrBadRequest", err)
	}
}

func TestFileBlobStorage_PublicURL(t *testing.T) {
	blobs, _ := newTestBlobs(t)

	got := blobs.PublicURL("documents", "01J/user guide.pdf")
	want := "http://localhost:8080/files/documents/01J/user%20guide.pdf"
	if got != want {
		t.Fatalf("PublicURL = %q, want %q", got, want)
	}
}
