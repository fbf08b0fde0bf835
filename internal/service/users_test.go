package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/mock"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestUserSvc(t *testing.T, ctrl *gomock.Controller) (UserService, *mock.MockRowStore) {
	t.Helper()
	rows := mock.NewMockRowStore(ctrl)
	return NewUserService(rows, logger.Nop()), rows
}

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	rows.EXPECT().
		Select(gomock.Any(), "users", adapter.Eq(nil), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ adapter.Eq, dest any) error {
			*dest.(*[]models.User) = []models.User{approvedUser, pendingUser}
			return nil
		})

	users, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.User{approvedUser, pendingUser}, users)
}

func TestUserService_List_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	rows.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	users, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserService_List_RemoteErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	rows.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(adapter.ErrUnavailable)

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}

func TestUserService_SetApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	approved := true
	want := pendingUser
	want.IsApproved = true

	rows.EXPECT().
		Update(gomock.Any(), "users", adapter.Eq{"id": pendingUser.ID}, models.UserPatch{IsApproved: &approved}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ adapter.Eq, _ any, dest any) error {
			*dest.(*[]models.User) = []models.User{want}
			return nil
		})

	got, err := svc.SetApproval(context.Background(), pendingUser.ID, true)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUserService_SetApproval_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	rows.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.SetApproval(context.Background(), "missing", false)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile_DropsPrivilegedFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, rows := newTestUserSvc(t, ctrl)
	name := "renamed"
	admin := true
	role := models.RoleAdministrator

	rows.EXPECT().
		Update(gomock.Any(), "users", adapter.Eq{"id": "u1"}, models.UserPatch{Username: &name}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ adapter.Eq, _ any, dest any) error {
			*dest.(*[]models.User) = []models.User{{ID: "u1", Username: name}}
			return nil
		})

	got, err := svc.UpdateProfile(context.Background(), "u1", models.UserPatch{Username: &name, IsAdmin: &admin, Role: &role})

	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.False(t, got.IsAdmin)
}

func TestUserService_UpdateProfile_OnlyPrivilegedFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestUserSvc(t, ctrl)
	approved := true

	_, err := svc.UpdateProfile(context.Background(), "u1", models.UserPatch{IsApproved: &approved})

	assert.ErrorIs(t, err, ErrEmptyUserPatch)
}
