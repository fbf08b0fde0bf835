package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/mock"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/store"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeSessions struct {
	state models.SessionState

	loginOutcome    service.Outcome
	loginErr        error
	registerOutcome service.Outcome
	registerErr     error
	resetErr        error
	updateErr       error
	adoptErr        error
	reloadErr       error

	loginCalls      int
	loggedOut       bool
	resetEmail      string
	updatedPassword string
	adopted         *models.Session
	reloaded        int
}

func (f *fakeSessions) Login(_ context.Context, _, _ string) (service.Outcome, error) {
	f.loginCalls++
	return f.loginOutcome, f.loginErr
}

func (f *fakeSessions) Register(_ context.Context, _, _, _ string) (service.Outcome, error) {
	return f.registerOutcome, f.registerErr
}

func (f *fakeSessions) Logout(context.Context) {
	f.loggedOut = true
	f.state = models.SessionState{}
}

func (f *fakeSessions) ResetPassword(_ context.Context, email string) error {
	f.resetEmail = email
	return f.resetErr
}

func (f *fakeSessions) UpdatePassword(_ context.Context, newPassword string) error {
	f.updatedPassword = newPassword
	return f.updateErr
}

func (f *fakeSessions) AdoptSession(_ context.Context, session models.Session) error {
	f.adopted = &session
	return f.adoptErr
}

func (f *fakeSessions) ReloadProfile(context.Context) (models.SessionState, error) {
	f.reloaded++
	return f.state, f.reloadErr
}

func (f *fakeSessions) Init(context.Context, service.InitOptions) {}
func (f *fakeSessions) Teardown(context.Context)                  {}
func (f *fakeSessions) State() models.SessionState                { return f.state }

type fakeUsers struct {
	users    []models.User
	err      error
	gotID    string
	gotPatch models.UserPatch
	approved *bool
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeUsers) SetApproval(_ context.Context, id string, approved bool) (models.User, error) {
	f.gotID, f.approved = id, &approved
	return models.User{ID: id, IsApproved: approved}, f.err
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, patch models.UserPatch) (models.User, error) {
	f.gotID, f.gotPatch = id, patch
	return models.User{ID: id}, f.err
}

type fakeFiles struct {
	err       error
	gotBucket string
	gotName   string
	gotBody   []byte
	gotType   string
	removed   []string
}

func (f *fakeFiles) Upload(_ context.Context, bucket, name string, body io.Reader, contentType string) (models.StoredFile, error) {
	f.gotBucket, f.gotName, f.gotType = bucket, name, contentType
	f.gotBody, _ = io.ReadAll(body)
	if f.err != nil {
		return models.StoredFile{}, f.err
	}
	return models.StoredFile{
		Bucket:      bucket,
		Path:        "01HLOCALID_" + name,
		PublicURL:   "http://files.test/" + bucket + "/01HLOCALID_" + name,
		ContentType: contentType,
		Size:        int64(len(f.gotBody)),
	}, nil
}

func (f *fakeFiles) Remove(_ context.Context, bucket string, paths ...string) error {
	f.gotBucket, f.removed = bucket, paths
	return f.err
}

type fakeAppInfo struct{}

func (fakeAppInfo) GetAppVersion(context.Context) string { return "1.2.3" }
func (fakeAppInfo) GetBuildInfo(context.Context) models.AppBuildInfo {
	return models.NewAppBuildInfo("1.2.3", "2026-01-01", "abc123")
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type testAPI struct {
	router   *chi.Mux
	sessions *fakeSessions
	users    *fakeUsers
	files    *fakeFiles
	mirror   store.LocalMirror
}

func newTestConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		Remote: config.Remote{Mode: config.RemoteModeHTTP},
		Server: config.Server{HTTPAddress: ":8080", AuthRateLimit: 1000, AuthRateBurst: 1000},
	}
}

// newTestAPI builds the router over fakes and an offline catalog: every
// remote row call fails, so catalog requests are served from an in-memory
// mirror.
func newTestAPI(t *testing.T, cfg *config.StructuredConfig, gatherer prometheus.Gatherer) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrUnavailable).AnyTimes()
	rows.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrUnavailable).AnyTimes()
	rows.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrUnavailable).AnyTimes()
	rows.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrUnavailable).AnyTimes()

	api := &testAPI{
		sessions: &fakeSessions{},
		users:    &fakeUsers{},
		files:    &fakeFiles{},
		mirror:   store.NewMemoryMirror(),
	}
	services := &service.Services{
		Sessions: api.sessions,
		Catalog:  service.NewCatalog(rows, api.mirror, nil),
		Users:    api.users,
		Files:    api.files,
		AppInfo:  fakeAppInfo{},
	}
	api.router = NewHandler(services, cfg, gatherer, logger.Nop()).Init()
	return api
}

func approvedUser() models.User {
	return models.User{ID: "u-1", Email: "user@example.com", Username: "user", IsApproved: true, Role: models.RoleUser}
}

func adminUser() models.User {
	return models.User{ID: "a-1", Email: "admin@example.com", Username: "admin", IsAdmin: true, IsApproved: true, Role: models.RoleAdministrator}
}

func (a *testAPI) signInAs(u models.User) {
	a.sessions.state = models.SessionState{User: &u, IsAuthenticated: true, IsAdmin: u.IsAdmin, IsApproved: u.IsApproved}
}

func (a *testAPI) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Error
}
