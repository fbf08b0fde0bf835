// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/crypto"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
)

const (
	identitiesTable    = "auth_identities"
	refreshTokensTable = "auth_refresh_tokens"

	refreshTokenLifetime = 30 * 24 * time.Hour
)

// postgresAuth is the direct PostgreSQL [adapter.AuthProvider]. Identities
// live in auth_identities with bcrypt password hashes; sessions are HS256
// access tokens plus opaque refresh tokens stored in auth_refresh_tokens.
//
// There is no mail delivery: recovery links are written to the log.
type postgresAuth struct {
	db          *DB
	builder     sq.StatementBuilderType
	credentials crypto.CredentialService

	signKey       string
	issuer        string
	tokenDuration time.Duration

	persister adapter.SessionPersister

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	now func() time.Time
}

type identityRow struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     []byte
	CreatedAt    time.Time
}

func (r identityRow) identity() models.AuthIdentity {
	created := r.CreatedAt
	identity := models.AuthIdentity{ID: r.ID, Email: r.Email, CreatedAt: &created}
	if len(r.Metadata) > 0 {
		_ = json.Unmarshal(r.Metadata, &identity.Metadata)
	}
	return identity
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp implements [adapter.AuthProvider]. No session is opened.
func (a *postgresAuth) SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.AuthIdentity, error) {
	return a.createIdentity(ctx, "sign up", email, password, metadata)
}

// AdminCreateUser implements [adapter.AuthProvider]. Identities of the
// direct backend need no confirmation, so this is SignUp without metadata.
func (a *postgresAuth) AdminCreateUser(ctx context.Context, email, password string) (models.AuthIdentity, error) {
	return a.createIdentity(ctx, "admin create user", email, password, nil)
}

func (a *postgresAuth) createIdentity(ctx context.Context, op, email, password string, metadata map[string]string) (models.AuthIdentity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.AuthIdentity{}, fmt.Errorf("%s: email and password required: %w", op, adapter.ErrBadRequest)
	}

	hash, err := a.credentials.HashPassword(password)
	if err != nil {
		return models.AuthIdentity{}, fmt.Errorf("%s: %w: %w", op, adapter.ErrBadRequest, err)
	}

	if metadata == nil {
		metadata = map[string]string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return models.AuthIdentity{}, fmt.Errorf("%s: %w: %w", op, ErrEncodingRow, err)
	}

	query, args, err := a.builder.
		Insert(identitiesTable).
		Columns("email", "password_hash", "user_metadata").
		Values(email, hash, string(meta)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return models.AuthIdentity{}, fmt.Errorf("%s: %w: %w", op, ErrBuildingSQLQuery, err)
	}

	row := identityRow{Email: email, Metadata: meta}
	if err = a.db.QueryRowContext(ctx, query, args...).Scan(&row.ID, &row.CreatedAt); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresAuth.createIdentity").Msg("error inserting identity")
		return models.AuthIdentity{}, classifyPostgresError(op, err)
	}

	return row.identity(), nil
}

// SignInWithPassword implements [adapter.AuthProvider].
func (a *postgresAuth) SignInWithPassword(ctx context.Context, email, password string) (models.Session, error) {
	row, err := a.findIdentity(ctx, sq.Eq{"email": normalizeEmail(email)})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, adapter.ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, classifyPostgresError("sign in", err)
	}

	if err = a.credentials.ComparePassword(row.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return models.Session{}, adapter.ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("sign in: %w: %w", adapter.ErrInternalServerError, err)
	}

	session, err := a.issueSession(ctx, row.identity())
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loaded = true
	a.storeSessionLocked(ctx, session)
	return session, nil
}

// SignOut implements [adapter.AuthProvider]. The refresh token is revoked
// after the local session is dropped.
func (a *postgresAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.loadLocked(ctx)
	session := a.session
	a.dropSessionLocked(ctx)

	if session == nil || session.RefreshToken == "" {
		return nil
	}
	return a.revoke(ctx, session.RefreshToken)
}

// GetSession implements [adapter.AuthProvider]. An expired session is
// renewed with its refresh token and dropped when the token is rejected.
func (a *postgresAuth) GetSession(ctx context.Context) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.loadLocked(ctx)
	if a.session == nil || !a.session.Expired(a.now()) {
		return a.copySession(), nil
	}

	if a.session.RefreshToken == "" {
		a.dropSessionLocked(ctx)
		return nil, nil
	}

	refreshed, err := a.refresh(ctx, a.session.RefreshToken)
	if err != nil {
		if errors.Is(err, adapter.ErrUnavailable) {
			return nil, err
		}
		logger.FromContext(ctx).Err(err).Str("func", "postgresAuth.GetSession").Msg("session refresh rejected, dropping session")
		a.dropSessionLocked(ctx)
		return nil, nil
	}

	a.storeSessionLocked(ctx, refreshed)
	return a.copySession(), nil
}

// SetSession implements [adapter.AuthProvider]. The access token must be
// one this backend issued and still valid.
func (a *postgresAuth) SetSession(ctx context.Context, session models.Session) error {
	claims, err := utils.ValidateAndParseJWTToken(session.AccessToken, a.signKey, a.issuer)
	if err != nil {
		return fmt.Errorf("set session: %w: %w", adapter.ErrUnauthorized, err)
	}

	session.Identity.ID, _ = claims.GetUserID()
	if claims.Email != "" {
		session.Identity.Email = claims.Email
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loaded = true
	a.storeSessionLocked(ctx, session)
	return nil
}

// ResetPasswordForEmail implements [adapter.AuthProvider]. Unknown emails
// succeed silently. The recovery link opens a session for the identity
// and is logged instead of mailed.
func (a *postgresAuth) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	log := logger.FromContext(ctx)

	row, err := a.findIdentity(ctx, sq.Eq{"email": normalizeEmail(email)})
	if errors.Is(err, sql.ErrNoRows) {
		log.Info().Str("func", "postgresAuth.ResetPasswordForEmail").Msg("recovery requested for unknown email")
		return nil
	}
	if err != nil {
		return classifyPostgresError("reset password", err)
	}

	session, err := a.issueSession(ctx, row.identity())
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	log.Info().
		Str("func", "postgresAuth.ResetPasswordForEmail").
		Str("email", row.Email).
		Str("link", recoveryLink(redirectTo, session, a.now())).
		Msg("password recovery link issued")
	return nil
}

func recoveryLink(redirectTo string, session models.Session, now time.Time) string {
	fragment := url.Values{}
	fragment.Set("access_token", session.AccessToken)
	fragment.Set("refresh_token", session.RefreshToken)
	fragment.Set("expires_in", strconv.Itoa(int(session.ExpiresAt.Sub(now).Seconds())))
	fragment.Set("type", "recovery")
	return redirectTo + "#" + fragment.Encode()
}

// UpdatePassword implements [adapter.AuthProvider].
func (a *postgresAuth) UpdatePassword(ctx context.Context, newPassword string) error {
	session, err := a.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if session == nil {
		return adapter.ErrNoSession
	}

	hash, err := a.credentials.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("update password: %w: %w", adapter.ErrBadRequest, err)
	}

	query, args, err := a.builder.
		Update(identitiesTable).
		Set("password_hash", hash).
		Where(sq.Eq{"id": session.Identity.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("update password: %w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyPostgresError("update password", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update password: %w", adapter.ErrNotFound)
	}
	return nil
}

// AdminListUsers implements [adapter.AuthProvider].
func (a *postgresAuth) AdminListUsers(ctx context.Context) ([]models.AuthIdentity, error) {
	query, args, err := a.builder.
		Select("id", "email", "password_hash", "user_metadata", "created_at").
		From(identitiesTable).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list identities: %w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyPostgresError("list identities", err)
	}
	defer rows.Close()

	identities := make([]models.AuthIdentity, 0)
	for rows.Next() {
		var r identityRow
		if err = rows.Scan(&r.ID, &r.Email, &r.PasswordHash, &r.Metadata, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list identities: %w: %w", ErrScanningRow, err)
		}
		identities = append(identities, r.identity())
	}
	if err = rows.Err(); err != nil {
		return nil, classifyPostgresError("list identities", err)
	}
	return identities, nil
}

func (a *postgresAuth) findIdentity(ctx context.Context, where sq.Eq) (identityRow, error) {
	query, args, err := a.builder.
		Select("id", "email", "password_hash", "user_metadata", "created_at").
		From(identitiesTable).
		Where(where).
		ToSql()
	if err != nil {
		return identityRow{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var r identityRow
	err = a.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.Email, &r.PasswordHash, &r.Metadata, &r.CreatedAt)
	return r, err
}

func (a *postgresAuth) issueSession(ctx context.Context, identity models.AuthIdentity) (models.Session, error) {
	access, expiresAt, err := utils.GenerateJWTToken(a.issuer, identity.ID, identity.Email, a.tokenDuration, a.signKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", adapter.ErrInternalServerError, err)
	}

	refresh, err := a.credentials.NewToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", adapter.ErrInternalServerError, err)
	}

	query, args, err := a.builder.
		Insert(refreshTokensTable).
		Columns("token", "identity_id", "expires_at").
		Values(refresh, identity.ID, a.now().Add(refreshTokenLifetime)).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = a.db.ExecContext(ctx, query, args...); err != nil {
		return models.Session{}, classifyPostgresError("store refresh token", err)
	}

	return models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Identity:     identity,
	}, nil
}

// refresh exchanges a refresh token for a new session, rotating the token.
func (a *postgresAuth) refresh(ctx context.Context, token string) (models.Session, error) {
	query, args, err := a.builder.
		Select("identity_id", "expires_at").
		From(refreshTokensTable).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		identityID string
		expiresAt  time.Time
	)
	err = a.db.QueryRowContext(ctx, query, args...).Scan(&identityID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("refresh session: %w", adapter.ErrUnauthorized)
	}
	if err != nil {
		return models.Session{}, classifyPostgresError("refresh session", err)
	}
	if !a.now().Before(expiresAt) {
		_ = a.revoke(ctx, token)
		return models.Session{}, fmt.Errorf("refresh session: token expired: %w", adapter.ErrUnauthorized)
	}

	row, err := a.findIdentity(ctx, sq.Eq{"id": identityID})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("refresh session: %w", adapter.ErrUnauthorized)
	}
	if err != nil {
		return models.Session{}, classifyPostgresError("refresh session", err)
	}

	if err = a.revoke(ctx, token); err != nil {
		return models.Session{}, err
	}
	return a.issueSession(ctx, row.identity())
}

func (a *postgresAuth) revoke(ctx context.Context, token string) error {
	query, args, err := a.builder.
		Delete(refreshTokensTable).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = a.db.ExecContext(ctx, query, args...); err != nil {
		return classifyPostgresError("revoke refresh token", err)
	}
	return nil
}

func (a *postgresAuth) loadLocked(ctx context.Context) {
	if a.loaded || a.persister == nil {
		a.loaded = true
		return
	}
	a.loaded = true

	stored, err := a.persister.LoadSession(ctx)
	switch {
	case err == nil:
		a.session = &stored
	case errors.Is(err, adapter.ErrNoSession):
	default:
		logger.FromContext(ctx).Err(err).Str("func", "postgresAuth.load").Msg("error loading persisted session")
	}
}

func (a *postgresAuth) copySession() *models.Session {
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

func (a *postgresAuth) storeSessionLocked(ctx context.Context, session models.Session) {
	a.session = &session
	if a.persister == nil {
		return
	}
	if err := a.persister.SaveSession(ctx, session); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresAuth.storeSession").Msg("error persisting session")
	}
}

func (a *postgresAuth) dropSessionLocked(ctx context.Context) {
	a.session = nil
	if a.persister == nil {
		return
	}
	if err := a.persister.ClearSession(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresAuth.dropSession").Msg("error clearing persisted session")
	}
}
