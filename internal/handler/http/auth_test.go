package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCredentials() models.Credentials {
	return models.Credentials{Email: "user@example.com", Password: "secret"}
}

// ── login ────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.loginOutcome = service.OutcomeSuccess
	api.signInAs(approvedUser())

	rec := api.do(http.MethodPost, "/api/auth/login", validCredentials())

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[models.AuthResponse](t, rec)
	assert.Equal(t, "success", resp.Outcome)
	require.NotNil(t, resp.Session.User)
	assert.Equal(t, "u-1", resp.Session.User.ID)
	assert.True(t, resp.Session.IsAuthenticated)
}

func TestLogin_Pending(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.loginOutcome = service.OutcomePending

	rec := api.do(http.MethodPost, "/api/auth/login", validCredentials())

	require.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeBody[models.AuthResponse](t, rec)
	assert.Equal(t, "pending", resp.Outcome)
	assert.Equal(t, msgAwaitingApproval, resp.Message)
	assert.False(t, resp.Session.IsAuthenticated)
}

func TestLogin_FailureHidesCause(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.loginOutcome = service.OutcomeFailure
	api.sessions.loginErr = &service.AuthError{Op: "login", Cause: adapter.ErrUnavailable}

	rec := api.do(http.MethodPost, "/api/auth/login", validCredentials())

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody[models.AuthResponse](t, rec)
	assert.Equal(t, "failure", resp.Outcome)
	assert.Equal(t, msgInvalidCredentials, resp.Message)
	assert.NotContains(t, rec.Body.String(), "unavailable")
}

func TestLogin_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "invalid json", body: "{not json"},
		{name: "invalid email", body: models.Credentials{Email: "nope", Password: "secret"}},
		{name: "empty password", body: models.Credentials{Email: "user@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newTestConfig(), nil)

			rec := api.do(http.MethodPost, "/api/auth/login", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, api.sessions.loginCalls)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	cfg := newTestConfig()
	cfg.Server.AuthRateLimit = 0.001
	cfg.Server.AuthRateBurst = 1
	api := newTestAPI(t, cfg, nil)
	api.sessions.loginOutcome = service.OutcomeFailure

	first := api.do(http.MethodPost, "/api/auth/login", validCredentials())
	second := api.do(http.MethodPost, "/api/auth/login", validCredentials())
	third := api.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Email: "new@example.com", Username: "newbie", Password: "secret1",
	})

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, 1, api.sessions.loginCalls)
}

// ── register ─────────────────────────────────────────────────────────────────

func TestRegister_Pending(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.registerOutcome = service.OutcomePending

	rec := api.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Email: "new@example.com", Username: "newbie", Password: "secret1",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decodeBody[models.AuthResponse](t, rec)
	assert.Equal(t, "pending", resp.Outcome)
	assert.False(t, resp.Session.IsAuthenticated)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        models.RegisterRequest
		wantStatus int
	}{
		{
			name:       "short password",
			req:        models.RegisterRequest{Email: "new@example.com", Username: "newbie", Password: "12345"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short username",
			req:        models.RegisterRequest{Email: "new@example.com", Username: "ab", Password: "secret1"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newTestConfig(), nil)

			rec := api.do(http.MethodPost, "/api/auth/register", tt.req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestRegister_FailureHidesCause(t *testing.T) {
	causes := map[string]error{
		"email taken":         adapter.ErrConflict,
		"service unreachable": adapter.ErrUnavailable,
		"rejected by service": adapter.ErrBadRequest,
		"unexpected":          errors.New("boom"),
	}

	var bodies []string
	for name, cause := range causes {
		t.Run(name, func(t *testing.T) {
			api := newTestAPI(t, newTestConfig(), nil)
			api.sessions.registerOutcome = service.OutcomeFailure
			api.sessions.registerErr = &service.AuthError{Op: "register", Cause: cause}

			rec := api.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
				Email: "new@example.com", Username: "newbie", Password: "secret1",
			})

			require.Equal(t, http.StatusBadRequest, rec.Code)
			bodies = append(bodies, rec.Body.String())

			resp := decodeBody[models.AuthResponse](t, rec)
			assert.Equal(t, "failure", resp.Outcome)
			assert.Equal(t, msgRegistrationFailed, resp.Message)
			assert.False(t, resp.Session.IsAuthenticated)
		})
	}

	require.Len(t, bodies, len(causes))
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

// ── logout / session ─────────────────────────────────────────────────────────

func TestLogout(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(approvedUser())

	rec := api.do(http.MethodPost, "/api/auth/logout", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, api.sessions.loggedOut)

	rec = api.do(http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[models.SessionState](t, rec).IsAuthenticated)
}

func TestSession(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.signInAs(adminUser())

	rec := api.do(http.MethodGet, "/api/auth/session", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[models.SessionState](t, rec)
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.IsAdmin)
	require.NotNil(t, state.User)
	assert.Equal(t, "a-1", state.User.ID)
}

// ── passwords ────────────────────────────────────────────────────────────────

func TestResetPassword(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodPost, "/api/auth/reset-password", models.ResetPasswordRequest{Email: "user@example.com"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "user@example.com", api.sessions.resetEmail)
}

func TestResetPassword_ErrorPropagates(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)
	api.sessions.resetErr = adapter.ErrUnavailable

	rec := api.do(http.MethodPost, "/api/auth/reset-password", models.ResetPasswordRequest{Email: "user@example.com"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), errorMessage(t, rec))
}

func TestUpdatePassword_CurrentSession(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodPost, "/api/auth/update-password", models.UpdatePasswordRequest{Password: "n3w-secret"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "n3w-secret", api.sessions.updatedPassword)
	assert.Nil(t, api.sessions.adopted)
}

func TestUpdatePassword_AdoptsRecoverySession(t *testing.T) {
	api := newTestAPI(t, newTestConfig(), nil)

	rec := api.do(http.MethodPost, "/api/auth/update-password", models.UpdatePasswordRequest{
		Password:    "n3w-secret",
		RecoveryURL: "http://localhost:8080/reset-password#access_token=at-1&refresh_token=rt-1&type=recovery",
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, api.sessions.adopted)
	assert.Equal(t, "at-1", api.sessions.adopted.AccessToken)
	assert.Equal(t, "rt-1", api.sessions.adopted.RefreshToken)
	assert.Equal(t, "n3w-secret", api.sessions.updatedPassword)
}

func TestUpdatePassword_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        models.UpdatePasswordRequest
		adoptErr   error
		updateErr  error
		wantStatus int
	}{
		{
			name:       "short password",
			req:        models.UpdatePasswordRequest{Password: "123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "link without recovery type",
			req:        models.UpdatePasswordRequest{Password: "n3w-secret", RecoveryURL: "http://localhost:8080/#access_token=at-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "expired recovery token",
			req:        models.UpdatePasswordRequest{Password: "n3w-secret", RecoveryURL: "http://localhost:8080/?type=recovery&access_token=old"},
			adoptErr:   adapter.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no session",
			req:        models.UpdatePasswordRequest{Password: "n3w-secret"},
			updateErr:  adapter.ErrNoSession,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newTestConfig(), nil)
			api.sessions.adoptErr = tt.adoptErr
			api.sessions.updateErr = tt.updateErr

			rec := api.do(http.MethodPost, "/api/auth/update-password", tt.req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
