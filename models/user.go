// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the coarse permission class of a portal account.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleUser          Role = "user"
	RoleClient        Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleUser, RoleClient:
		return true
	}
	return false
}

// User is the profile row of a portal account. The identifier is issued by
// the remote auth service and is authoritative there.
//
// Accounts are never hard-deleted: deactivation clears IsApproved.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	IsAdmin    bool       `json:"is_admin"`
	IsApproved bool       `json:"is_approved"`
	Role       Role       `json:"role"`
	Department *string    `json:"department,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// NewPendingUser builds the profile row written on registration: not an
// admin, not approved, client role.
func NewPendingUser(id, email, username string) User {
	return User{
		ID:       id,
		Email:    email,
		Username: username,
		Role:     RoleClient,
	}
}

// CanSignIn reports whether a session for this account may be materialized.
func (u User) CanSignIn() bool {
	return u.IsAdmin || u.IsApproved
}

// TableName returns the name of the remote table holding user profiles.
func (u User) TableName() string {
	return "users"
}

// UserPatch is a partial update of a profile row. Nil fields are left
// unchanged.
type UserPatch struct {
	Username   *string `json:"username,omitempty"`
	Department *string `json:"department,omitempty"`
	IsApproved *bool   `json:"is_approved,omitempty"`
	IsAdmin    *bool   `json:"is_admin,omitempty"`
	Role       *Role   `json:"role,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Department == nil && p.IsApproved == nil &&
		p.IsAdmin == nil && p.Role == nil
}
