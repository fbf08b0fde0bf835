// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Credentials is an email/password pair submitted to the auth service.
type Credentials struct {
	Email    string `json:"email" env:"EMAIL"`
	Password string `json:"password" env:"PASSWORD"`
}

// Empty reports whether either part of the pair is missing.
func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

// AuthIdentity is an account as known to the auth service, independent of
// its profile row.
type AuthIdentity struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Metadata  map[string]string `json:"user_metadata,omitempty"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
}

// Session is an authenticated auth-service session.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Identity     AuthIdentity `json:"user"`
}

// Expired reports whether the access token is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionState is the snapshot of the session context exposed to callers.
type SessionState struct {
	User            *User `json:"user,omitempty"`
	IsAuthenticated bool  `json:"is_authenticated"`
	IsAdmin         bool  `json:"is_admin"`
	IsApproved      bool  `json:"is_approved"`
}
