package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-resty/resty/v2"
)

const (
	restPrefix    = "/rest/v1"
	authPrefix    = "/auth/v1"
	storagePrefix = "/storage/v1"
)

type httpRemote struct {
	client  *utils.HTTPClient
	baseURL string

	apiKey     string
	serviceKey string

	persister SessionPersister

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	now    func() time.Time
	logger *logger.Logger
}

// NewHTTPRemote constructs the REST implementation of every remote store
// sub-interface for a hosted row-store/auth/storage service.
//
// persister may be nil, in which case the session lives in memory only.
// Returns an error if cfg.URL is empty or cannot be parsed as a URL.
func NewHTTPRemote(cfg config.Remote, persister SessionPersister, logger *logger.Logger) (Remote, error) {
	h, err := newHTTPRemote(cfg, persister, logger)
	if err != nil {
		return Remote{}, err
	}
	return Remote{Rows: h, Auth: h, Blobs: h, Schema: h}, nil
}

func newHTTPRemote(cfg config.Remote, persister SessionPersister, logger *logger.Logger) (*httpRemote, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}

	return &httpRemote{
		client:     utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		serviceKey: cfg.ServiceKey,
		persister:  persister,
		now:        time.Now,
		logger:     logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// request returns a request carrying the api key and the given bearer token.
func (h *httpRemote) request(ctx context.Context, bearer string) *resty.Request {
	if bearer == "" {
		bearer = h.apiKey
	}
	return h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		SetAuthToken(bearer)
}

// userRequest authorizes as the current session, or anonymously when there
// is none.
func (h *httpRemote) userRequest(ctx context.Context) (*resty.Request, error) {
	session, err := h.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return h.request(ctx, ""), nil
	}
	return h.request(ctx, session.AccessToken), nil
}

// serviceRequest authorizes with the service key.
func (h *httpRemote) serviceRequest(ctx context.Context) (*resty.Request, error) {
	if h.serviceKey == "" {
		return nil, fmt.Errorf("%w: service key is not configured", ErrForbidden)
	}
	return h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.serviceKey).
		SetAuthToken(h.serviceKey), nil
}

// authResponse covers the token endpoint and the sign-up endpoint, which
// returns either a bare identity or a full session.
type authResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
	ExpiresAt    int64                `json:"expires_at"`
	User         *models.AuthIdentity `json:"user"`

	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

func (a authResponse) identity() models.AuthIdentity {
	if a.User != nil {
		return *a.User
	}
	return models.AuthIdentity{ID: a.ID, Email: a.Email, Metadata: a.Metadata}
}

func (h *httpRemote) sessionFrom(a authResponse) (models.Session, error) {
	session := models.Session{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		Identity:     a.identity(),
	}

	switch {
	case a.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(a.ExpiresAt, 0)
	case a.ExpiresIn > 0:
		session.ExpiresAt = h.now().Add(time.Duration(a.ExpiresIn) * time.Second)
	}

	return completeSession(session)
}

// completeSession fills identity and expiry from the access token claims
// when the service did not send them.
func completeSession(session models.Session) (models.Session, error) {
	if session.AccessToken == "" {
		return models.Session{}, fmt.Errorf("%w: empty access token", ErrBadRequest)
	}
	if session.Identity.ID != "" && !session.ExpiresAt.IsZero() {
		return session, nil
	}

	claims, err := utils.ParseClaimsUnverified(session.AccessToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if session.Identity.ID == "" {
		if session.Identity.ID, err = claims.GetUserID(); err != nil {
			return models.Session{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}
	if session.Identity.Email == "" {
		session.Identity.Email = claims.Email
	}
	if session.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// GetSession implements [AuthProvider]. The persisted session is loaded on
// first use; an expired session is renewed with its refresh token, and
// dropped when the service rejects the renewal.
func (h *httpRemote) GetSession(ctx context.Context) (*models.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := logger.FromContext(ctx)

	if !h.loaded && h.persister != nil {
		stored, err := h.persister.LoadSession(ctx)
		switch {
		case err == nil:
			h.session = &stored
		case errors.Is(err, ErrNoSession):
		default:
			log.Err(err).Str("func", "httpRemote.GetSession").Msg("error loading persisted session")
		}
	}
	h.loaded = true

	if h.session == nil || !h.session.Expired(h.now()) {
		return h.copySession(), nil
	}

	if h.session.RefreshToken == "" {
		h.dropSessionLocked(ctx)
		return nil, nil
	}

	refreshed, err := h.refresh(ctx, h.session.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		log.Err(err).Str("func", "httpRemote.GetSession").Msg("session refresh rejected, dropping session")
		h.dropSessionLocked(ctx)
		return nil, nil
	}

	h.storeSessionLocked(ctx, refreshed)
	return h.copySession(), nil
}

func (h *httpRemote) refresh(ctx context.Context, refreshToken string) (models.Session, error) {
	var out authResponse
	resp, err := h.request(ctx, "").
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&out).
		Post(authPrefix + "/token")
	if err != nil {
		return models.Session{}, transportError("refresh session", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, fmt.Errorf("refresh session: %w", err)
	}
	return h.sessionFrom(out)
}

// SetSession implements [AuthProvider].
func (h *httpRemote) SetSession(ctx context.Context, session models.Session) error {
	completed, err := completeSession(session)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaded = true
	h.storeSessionLocked(ctx, completed)
	return nil
}

func (h *httpRemote) copySession() *models.Session {
	if h.session == nil {
		return nil
	}
	s := *h.session
	return &s
}

func (h *httpRemote) storeSessionLocked(ctx context.Context, session models.Session) {
	h.session = &session
	if h.persister == nil {
		return
	}
	if err := h.persister.SaveSession(ctx, session); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "httpRemote.storeSession").Msg("error persisting session")
	}
}

func (h *httpRemote) dropSessionLocked(ctx context.Context) {
	h.session = nil
	if h.persister == nil {
		return
	}
	if err := h.persister.ClearSession(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "httpRemote.dropSession").Msg("error clearing persisted session")
	}
}
