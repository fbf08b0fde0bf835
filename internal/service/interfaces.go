package service

import (
	"context"
	"io"

	"github.com/MKhiriev/go-tech-support/models"
)

// SessionService is the auth/session context of the portal runtime.
type SessionService interface {
	Login(ctx context.Context, email, password string) (Outcome, error)
	Register(ctx context.Context, email, username, password string) (Outcome, error)
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	// AdoptSession installs a session carried by a password-recovery link.
	AdoptSession(ctx context.Context, session models.Session) error
	// ReloadProfile re-reads the signed-in user's profile row.
	ReloadProfile(ctx context.Context) (models.SessionState, error)

	Init(ctx context.Context, opts InitOptions)
	Teardown(ctx context.Context)
	State() models.SessionState
}

// Repository is CRUD over one catalog entity. T is the record type, P its
// patch type.
type Repository[T any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Add(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

// UserService administers profile rows. It talks to the remote store only.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	SetApproval(ctx context.Context, id string, approved bool) (models.User, error)
	UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
}

// FileService uploads files to blob storage.
type FileService interface {
	Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (models.StoredFile, error)
	Remove(ctx context.Context, bucket string, paths ...string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
