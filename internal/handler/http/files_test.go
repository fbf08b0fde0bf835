package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func (a *testAPI) upload(t *testing.T, bucket, field, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartUpload(t, field, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/api/files/"+bucket, body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadFile(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(adminUser())

	rec := api.upload(t, "documents", "file", "manual.pdf", "application/pdf", []byte("%PDF-1.7"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	stored := decodeBody[models.StoredFile](t, rec)
	assert.Equal(t, "documents", stored.Bucket)
	assert.Equal(t, "01HLOCALID_manual.pdf", stored.Path)
	assert.Equal(t, int64(8), stored.Size)

	assert.Equal(t, "manual.pdf", api.files.gotName)
	assert.Equal(t, "application/pdf", api.files.gotType)
	assert.Equal(t, []byte("%PDF-1.7"), api.files.gotBody)
}

func TestUploadFile_DefaultContentType(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(adminUser())

	rec := api.upload(t, "drivers", "file", "driver.bin", "", []byte{0x1, 0x2})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/octet-stream", api.files.gotType)
}

func TestUploadFile_Errors(t *testing.T) {
	t.Run("missing file part", func(t *testing.T) {
		api := newTestAPI(t, newTestConfig(), nil)
		api.signInAs(adminUser())

		rec := api.upload(t, "documents", "attachment", "manual.pdf", "application/pdf", []byte("x"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrMissingFile.Error(), errorMessage(t, rec))
	})

	t.Run("not multipart", func(t *testing.T) {
		api := newTestAPI(t, newTestConfig(), nil)
		api.signInAs(adminUser())

		rec := api.do(http.MethodPost, "/api/files/documents", map[string]string{"file": "x"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage down", func(t *testing.T) {
		api := newTestAPI(t, newTestConfig(), nil)
		api.signInAs(adminUser())
		api.files.err = adapter.ErrUnavailable

		rec := api.upload(t, "documents", "file", "manual.pdf", "application/pdf", []byte("x"))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("not an admin", func(t *testing.T) {
		api := newTestAPI(t, newTestConfig(), nil)
		api.signInAs(approvedUser())

		rec := api.upload(t, "documents", "file", "manual.pdf", "application/pdf", []byte("x"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, api.files.gotName)
	})
}

func TestRemoveFiles(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(adminUser())

	rec := api.do(http.MethodDelete, "/api/files/documents", models.RemoveFilesRequest{Paths: []string{"a.pdf", "b.pdf"}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "documents", api.files.gotBucket)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, api.files.removed)
}

func TestRemoveFiles_NoPaths(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(adminUser())

	rec := api.do(http.MethodDelete, "/api/files/documents", models.RemoveFilesRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, api.files.removed)
}
