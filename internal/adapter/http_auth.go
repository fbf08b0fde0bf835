package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/models"
)

// SignUp implements [AuthProvider]. When the service answers with a session
// (no email confirmation configured) the session is adopted so that a
// following SignOut closes it.
func (h *httpRemote) SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.AuthIdentity, error) {
	var out authResponse
	resp, err := h.request(ctx, "").
		SetBody(map[string]any{"email": email, "password": password, "data": metadata}).
		SetResult(&out).
		Post(authPrefix + "/signup")
	if err != nil {
		return models.AuthIdentity{}, transportError("sign up", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthIdentity{}, fmt.Errorf("sign up: %w", err)
	}

	identity := out.identity()
	if identity.ID == "" {
		return models.AuthIdentity{}, fmt.Errorf("sign up: %w: no identity in response", ErrBadRequest)
	}

	if out.AccessToken != "" {
		session, err := h.sessionFrom(out)
		if err != nil {
			return models.AuthIdentity{}, fmt.Errorf("sign up: %w", err)
		}
		h.mu.Lock()
		h.loaded = true
		h.storeSessionLocked(ctx, session)
		h.mu.Unlock()
	}

	return identity, nil
}

// SignInWithPassword implements [AuthProvider].
func (h *httpRemote) SignInWithPassword(ctx context.Context, email, password string) (models.Session, error) {
	var out authResponse
	resp, err := h.request(ctx, "").
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post(authPrefix + "/token")
	if err != nil {
		return models.Session{}, transportError("sign in", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnauthorized) {
			err = fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return models.Session{}, fmt.Errorf("sign in: %w", err)
	}

	session, err := h.sessionFrom(out)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in: %w", err)
	}

	h.mu.Lock()
	h.loaded = true
	h.storeSessionLocked(ctx, session)
	h.mu.Unlock()

	return session, nil
}

// SignOut implements [AuthProvider].
func (h *httpRemote) SignOut(ctx context.Context) error {
	// loads the persisted session if this is the first call
	_, _ = h.GetSession(ctx)

	h.mu.Lock()
	session := h.copySession()
	h.loaded = true
	h.dropSessionLocked(ctx)
	h.mu.Unlock()

	if session == nil {
		return nil
	}

	resp, err := h.request(ctx, session.AccessToken).Post(authPrefix + "/logout")
	if err != nil {
		return transportError("sign out", err)
	}
	if err = mapHTTPError(resp); err != nil {
		// the token may already be revoked or expired
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
			logger.FromContext(ctx).Debug().Err(err).Str("func", "httpRemote.SignOut").Msg("session already closed remotely")
			return nil
		}
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// ResetPasswordForEmail implements [AuthProvider].
func (h *httpRemote) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	req := h.request(ctx, "").SetBody(map[string]string{"email": email})
	if redirectTo != "" {
		req.SetQueryParam("redirect_to", redirectTo)
	}

	resp, err := req.Post(authPrefix + "/recover")
	if err != nil {
		return transportError("reset password", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// UpdatePassword implements [AuthProvider].
func (h *httpRemote) UpdatePassword(ctx context.Context, newPassword string) error {
	session, err := h.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if session == nil {
		return fmt.Errorf("update password: %w", ErrNoSession)
	}

	resp, err := h.request(ctx, session.AccessToken).
		SetBody(map[string]string{"password": newPassword}).
		Put(authPrefix + "/user")
	if err != nil {
		return transportError("update password", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// AdminListUsers implements [AuthProvider].
func (h *httpRemote) AdminListUsers(ctx context.Context) ([]models.AuthIdentity, error) {
	req, err := h.serviceRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	var out struct {
		Users []models.AuthIdentity `json:"users"`
	}
	resp, err := req.SetResult(&out).Get(authPrefix + "/admin/users")
	if err != nil {
		return nil, transportError("list identities", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out.Users, nil
}

// AdminCreateUser implements [AuthProvider].
func (h *httpRemote) AdminCreateUser(ctx context.Context, email, password string) (models.AuthIdentity, error) {
	req, err := h.serviceRequest(ctx)
	if err != nil {
		return models.AuthIdentity{}, fmt.Errorf("create identity: %w", err)
	}

	var out models.AuthIdentity
	resp, err := req.
		SetBody(map[string]any{"email": email, "password": password, "email_confirm": true}).
		SetResult(&out).
		Post(authPrefix + "/admin/users")
	if err != nil {
		return models.AuthIdentity{}, transportError("create identity", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthIdentity{}, fmt.Errorf("create identity: %w", err)
	}
	return out, nil
}
