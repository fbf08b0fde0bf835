package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Route guard ──────────────────────────────────────────────────────────────

func TestDecideRoute(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		path          string
		want          routeDecision
	}{
		{name: "authenticated", authenticated: true, path: "/api/catalog/drivers", want: routeDecision{Allow: true}},
		{name: "anonymous", path: "/api/catalog/drivers", want: routeDecision{RedirectTo: "/login?redirect=%2Fapi%2Fcatalog%2Fdrivers"}},
		{name: "anonymous with query", path: "/api/catalog/guides?tag=bios", want: routeDecision{RedirectTo: "/login?redirect=%2Fapi%2Fcatalog%2Fguides%3Ftag%3Dbios"}},
		{name: "anonymous without path", path: "", want: routeDecision{RedirectTo: "/login?redirect=%2F"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decideRoute(tt.authenticated, tt.path))
		})
	}
}

func TestGuard_RedirectsWithoutSession(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodGet, "/api/catalog/drivers?os=win11", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fapi%2Fcatalog%2Fdrivers%3Fos%3Dwin11", rec.Header().Get("Location"))
}

func TestGuard_AuthenticatedPassesThrough(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(approvedUser())

	rec := api.do(http.MethodGet, "/api/catalog/drivers", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGuard_UnapprovedStateWithoutUserRedirects(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.state = models.SessionState{IsAuthenticated: true}

	rec := api.do(http.MethodGet, "/api/users/", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(approvedUser())

	rec := api.do(http.MethodPost, "/api/catalog/drivers", models.Driver{Name: "Chipset"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	api.signInAs(adminUser())
	rec = api.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ── Public routes ────────────────────────────────────────────────────────────

func TestGetVersion(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodGet, "/api/version", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.VersionResponse{Version: "1.2.3", BuildDate: "2026-01-01", BuildCommit: "abc123"},
		decodeBody[models.VersionResponse](t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)
	metrics.RemoteFallbacks.WithLabelValues("driver", "list").Inc()

	api := newTestAPI(t, newTestConfig(), reg)

	rec := api.do(http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "techsupport_remote_fallbacks_total")
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestCheckHTTPMethod_UnsupportedMethodIsNotFound(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodPut, "/api/version", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/auth/login", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWithTraceID(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodGet, "/api/version", nil)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(traceIDHeader, "trace-42")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get(traceIDHeader))
}

func TestWithGZip_CompressesResponse(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"version":"1.2.3"`)
}

func TestWithGZip_NoContentIsNotEncoded(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}

func TestWithGZip_DecompressesRequest(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.loginOutcome = service.OutcomeSuccess

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, _ = zw.Write([]byte(`{"email":"user@example.com","password":"secret"}`))
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, api.sessions.loginCalls)
}
