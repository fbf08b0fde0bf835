package models

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordRequest is the payload of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest is the payload of POST /api/auth/update-password.
//
// RecoveryURL optionally carries the recovery link the portal was opened
// with; its session is adopted before the password is changed.
type UpdatePasswordRequest struct {
	Password    string `json:"password"`
	RecoveryURL string `json:"recovery_url,omitempty"`
}

// ApprovalRequest is the payload of PATCH /api/users/{id}/approval.
type ApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// AuthResponse reports the outcome of a login or registration together with
// the resulting session state.
type AuthResponse struct {
	Outcome string       `json:"outcome"`
	Message string       `json:"message,omitempty"`
	Session SessionState `json:"session"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version     string `json:"version"`
	BuildDate   string `json:"build_date,omitempty"`
	BuildCommit string `json:"build_commit,omitempty"`
}

// RemoveFilesRequest is the payload of DELETE /api/files/{bucket}.
type RemoveFilesRequest struct {
	Paths []string `json:"paths"`
}
