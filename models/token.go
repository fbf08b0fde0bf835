// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set carried by session access tokens.
//
// The "sub" claim holds the auth identity id; Email mirrors the identity's
// email so that a session can be described without a round-trip.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GetUserID returns the identity id stored in the "sub" claim.
func (c SessionClaims) GetUserID() (string, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting user id from token: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("error extracting user id from token: empty subject")
	}
	return sub, nil
}
