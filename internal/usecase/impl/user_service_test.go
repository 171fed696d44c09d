package impl

import (
	"context"
	"testing"

	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListAndGet(t *testing.T) {
	f := createTestServices(t)
	alice := f.seedUser(t, "alice@example.com", nil)
	f.seedUser(t, "bob@example.com", nil)

	users, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	got, err := f.users.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = f.users.GetUser(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_UpdateUser(t *testing.T) {
	f := createTestServices(t)
	role := f.seedRole(t, "editor")
	user := f.seedUser(t, "alice@example.com", nil)

	newName := "Alice Cooper"
	newEmail := " Alice.Cooper@Example.com "
	got, err := f.users.UpdateUser(context.Background(), user.ID, usecase.UpdateUserInput{
		FullName: &newName,
		Email:    &newEmail,
		RoleID:   &role.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", got.FullName)
	assert.Equal(t, "alice.cooper@example.com", got.Email)
	require.NotNil(t, got.RoleID)
	assert.Equal(t, role.ID, *got.RoleID)
}

func TestUserService_UpdateUserRehashesPassword(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	newPassword := "BrandNewPass456!"
	got, err := f.users.UpdateUser(context.Background(), user.ID, usecase.UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)
	assert.Equal(t, "hashed:BrandNewPass456!", got.PasswordHash)

	out, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: newPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
}

func TestUserService_UpdateUserUnknownRole(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	missing := uuid.New()
	_, err := f.users.UpdateUser(context.Background(), user.ID, usecase.UpdateUserInput{RoleID: &missing})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRoleNotFound))
}

func TestUserService_UpdateUserDuplicateEmail(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)
	bob := f.seedUser(t, "bob@example.com", nil)

	taken := "alice@example.com"
	_, err := f.users.UpdateUser(context.Background(), bob.ID, usecase.UpdateUserInput{Email: &taken})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
}

func TestUserService_DeactivateRevokesSessions(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	login, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	require.NoError(t, f.users.DeactivateUser(context.Background(), user.ID))
	assert.False(t, f.store.users[user.ID].IsActive)

	// The open session died with the deactivation.
	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// Deactivating twice is a conflict.
	err = f.users.DeactivateUser(context.Background(), user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestUserService_ActivateRestoresLogin(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)
	user.IsActive = false

	require.NoError(t, f.users.ActivateUser(context.Background(), user.ID))

	_, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	assert.NoError(t, err)

	err = f.users.ActivateUser(context.Background(), user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestUserService_DeleteUser(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	require.NoError(t, f.users.DeleteUser(context.Background(), user.ID))

	_, err := f.users.GetUser(context.Background(), user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	err = f.users.DeleteUser(context.Background(), user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
