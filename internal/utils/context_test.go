// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-tech-support/models"
)

func TestContextKeyString(t *testing.T) {
	if UserCtxKey.String() != "user" {
		t.Errorf("expected 'user', got '%s'", UserCtxKey.String())
	}
}

func TestGetUserFromContext_Success(t *testing.T) {
	ctx := WithUser(context.Background(), models.User{ID: "u-1", IsApproved: true})

	user, ok := GetUserFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if user.ID != "u-1" {
		t.Errorf("expected user id 'u-1', got '%s'", user.ID)
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	if _, ok := GetUserFromContext(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}

func TestGetUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserCtxKey, "u-1")
	if _, ok := GetUserFromContext(ctx); ok {
		t.Error("expected ok=false for wrong value type")
	}
}
