package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestFileSvc(t *testing.T, ctrl *gomock.Controller) (*fileService, *mock.MockBlobStorage) {
	t.Helper()
	blobs := mock.NewMockBlobStorage(ctrl)
	svc := NewFileService(blobs).(*fileService)
	svc.newID = func() string { return "01HFILEID" }
	return svc, blobs
}

func TestFileService_Upload_CreatesBucketAndReturnsURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, blobs := newTestFileSvc(t, ctrl)
	gomock.InOrder(
		blobs.EXPECT().CreateBucket(gomock.Any(), "documents", true).Return(nil),
		blobs.EXPECT().
			Upload(gomock.Any(), "documents", "01HFILEID_manual.pdf", gomock.Any(), "application/pdf").
			DoAndReturn(func(_ context.Context, _, _ string, body io.Reader, _ string) error {
				_, err := io.ReadAll(body)
				return err
			}),
		blobs.EXPECT().PublicURL("documents", "01HFILEID_manual.pdf").Return("https://cdn.example.com/documents/01HFILEID_manual.pdf"),
	)

	file, err := svc.Upload(context.Background(), "documents", "manual.pdf", strings.NewReader("%PDF-1.7"), "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, "documents", file.Bucket)
	assert.Equal(t, "01HFILEID_manual.pdf", file.Path)
	assert.Equal(t, "https://cdn.example.com/documents/01HFILEID_manual.pdf", file.PublicURL)
	assert.Equal(t, int64(8), file.Size)
}

func TestFileService_Upload_ToleratesExistingBucket(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, blobs := newTestFileSvc(t, ctrl)
	blobs.EXPECT().CreateBucket(gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrBucketExists)
	blobs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	blobs.EXPECT().PublicURL(gomock.Any(), gomock.Any()).Return("url")

	_, err := svc.Upload(context.Background(), "drivers", "setup.exe", strings.NewReader("MZ"), "")

	require.NoError(t, err)
}

func TestFileService_Upload_BucketErrorIsOnlyLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, blobs := newTestFileSvc(t, ctrl)
	blobs.EXPECT().CreateBucket(gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrForbidden)
	blobs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	blobs.EXPECT().PublicURL(gomock.Any(), gomock.Any()).Return("url")

	_, err := svc.Upload(context.Background(), "drivers", "setup.exe", strings.NewReader("MZ"), "")

	require.NoError(t, err)
}

func TestFileService_Upload_ErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, blobs := newTestFileSvc(t, ctrl)
	uploadErr := errors.New("payload too large")
	blobs.EXPECT().CreateBucket(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	blobs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(uploadErr)

	_, err := svc.Upload(context.Background(), "drivers", "setup.exe", strings.NewReader("MZ"), "")

	assert.ErrorIs(t, err, uploadErr)
}

func TestFileService_Upload_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestFileSvc(t, ctrl)

	_, err := svc.Upload(context.Background(), "", "a.txt", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Upload(context.Background(), "docs", "a.txt", nil, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestFileService_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, blobs := newTestFileSvc(t, ctrl)
	blobs.EXPECT().Remove(gomock.Any(), "docs", "a.pdf", "b.pdf").Return(nil)

	require.NoError(t, svc.Remove(context.Background(), "docs", "a.pdf", "b.pdf"))
	assert.ErrorIs(t, svc.Remove(context.Background(), "docs"), ErrInvalidDataProvided)
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"manual.pdf", "manual.pdf"},
		{"My Report (1).pdf", "My_Report_1_.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\driver.zip`, "driver.zip"},
		{"", "file"},
		{"...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanFileName(tt.in))
		})
	}
}
