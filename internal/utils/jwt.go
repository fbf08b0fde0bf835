package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tech-support/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWTToken creates a signed HMAC-SHA256 session token.
//
// The token carries iss, sub (the identity id), email, iat and exp claims.
// All parameters except email are required.
//
// Example usage:
//
//	signed, exp, err := utils.GenerateJWTToken("tech-support", id, email, time.Hour, "secret")
func GenerateJWTToken(issuer, userID, email string, tokenDuration time.Duration, signKey string) (string, time.Time, error) {
	if issuer == "" || userID == "" || tokenDuration <= 0 || signKey == "" {
		return "", time.Time{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	expiresAt := now.Add(tokenDuration)
	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer and expiry of
// tokenString and returns its claims. The subject must be non-empty.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.SessionClaims, error) {
	claims := models.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.SessionClaims{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if _, err = claims.GetUserID(); err != nil {
		return models.SessionClaims{}, err
	}

	return claims, nil
}

// ParseClaimsUnverified decodes the claims of a token issued by a third
// party without checking its signature. Used to read the identity id and
// expiry of sessions handed out by the hosted auth service.
func ParseClaimsUnverified(tokenString string) (models.SessionClaims, error) {
	claims := models.SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return models.SessionClaims{}, fmt.Errorf("error parsing token claims: %w", err)
	}
	return claims, nil
}
