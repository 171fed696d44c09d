package impl

import (
	"context"
	"testing"
	"time"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	f := createTestServices(t)
	f.seedRole(t, entity.RoleNameUser)

	out, err := f.auth.Register(context.Background(), usecase.RegisterInput{
		FullName: "Alice Smith",
		Email:    "  Alice@Example.COM ",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)
	require.NotNil(t, out.User)

	// Email is stored trimmed and lowercased; the default role is attached.
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.True(t, out.User.IsActive)
	require.NotNil(t, out.User.RoleID)

	// The hash, not the password, is what got stored.
	stored := f.store.users[out.User.ID]
	assert.NotEqual(t, "SecurePass123!", stored.PasswordHash)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)

	_, err := f.auth.Register(context.Background(), usecase.RegisterInput{
		FullName: "Alice Again",
		Email:    "ALICE@example.com",
		Password: "SecurePass123!",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
}

func TestAuthService_RegisterWithoutDefaultRole(t *testing.T) {
	// A missing default role must not block registration.
	f := createTestServices(t)

	out, err := f.auth.Register(context.Background(), usecase.RegisterInput{
		FullName: "Bob",
		Email:    "bob@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)
	assert.Nil(t, out.User.RoleID)
}

func TestAuthService_RegisterWithExplicitRole(t *testing.T) {
	f := createTestServices(t)
	f.seedRole(t, entity.RoleNameUser)
	editor := f.seedRole(t, "editor")

	out, err := f.auth.Register(context.Background(), usecase.RegisterInput{
		FullName: "Carol",
		Email:    "carol@example.com",
		Password: "SecurePass123!",
		RoleID:   &editor.ID,
	})
	require.NoError(t, err)

	// The explicit choice wins over the default role.
	require.NotNil(t, out.User.RoleID)
	assert.Equal(t, editor.ID, *out.User.RoleID)
}

func TestAuthService_RegisterUnknownExplicitRole(t *testing.T) {
	f := createTestServices(t)
	f.seedRole(t, entity.RoleNameUser)

	missing := uuid.New()
	_, err := f.auth.Register(context.Background(), usecase.RegisterInput{
		FullName: "Dave",
		Email:    "dave@example.com",
		Password: "SecurePass123!",
		RoleID:   &missing,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRoleNotFound))
}

func TestAuthService_Login(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	out, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "Alice@Example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, user.ID, out.User.ID)

	// The session landed in the ledger unrevoked.
	session, ok := f.store.tokens[out.RefreshToken]
	require.True(t, ok)
	assert.Equal(t, user.ID, session.UserID)
	assert.False(t, session.Revoked)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)

	_, wrongPassword := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "WrongPass123!",
	})
	_, unknownEmail := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "SecurePass123!",
	})

	assert.True(t, errors.Is(wrongPassword, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownEmail, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_LoginDeactivatedAccount(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)
	user.IsActive = false

	_, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.Error(t, err)
	// The password was correct, so the account state is disclosed.
	assert.True(t, errors.Is(err, domainerrors.ErrAccountDeactivated))
}

func TestAuthService_LoginAllowsConcurrentSessions(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	input := usecase.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}
	for range 3 {
		_, err := f.auth.Login(context.Background(), input)
		require.NoError(t, err)
	}

	repo := &fakeRefreshTokenRepo{store: f.store}
	count, err := repo.CountActiveByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestAuthService_Refresh(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)

	login, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	out, err := f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	// The refresh token is not rotated and remains usable.
	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthService_RefreshUnknownToken(t *testing.T) {
	f := createTestServices(t)

	_, err := f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: "never-issued"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_RefreshExpiredToken(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)

	login, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	// Expired rows stay in the ledger; lookups filter them at read time.
	f.store.tokens[login.RefreshToken].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_RefreshDeactivatedUser(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	login, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	user.IsActive = false

	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountDeactivated))
}

func TestAuthService_SessionsListsUsableOnly(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	var tokens []string
	for range 3 {
		login, err := f.auth.Login(context.Background(), usecase.LoginInput{
			Email:    "alice@example.com",
			Password: "SecurePass123!",
		})
		require.NoError(t, err)
		tokens = append(tokens, login.RefreshToken)
	}

	out, err := f.auth.Sessions(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, out.Sessions, 3)
	assert.Equal(t, int64(3), out.ActiveCount)

	// A logged-out session and an expired one drop out of the listing.
	require.NoError(t, f.auth.Logout(context.Background(), usecase.LogoutInput{RefreshToken: tokens[0]}))
	f.store.tokens[tokens[1]].ExpiresAt = time.Now().Add(-time.Minute)

	out, err = f.auth.Sessions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, out.Sessions, 1)
	assert.Equal(t, int64(1), out.ActiveCount)
	assert.Equal(t, tokens[2], out.Sessions[0].Token)
}

func TestAuthService_LogoutEndsSession(t *testing.T) {
	f := createTestServices(t)
	f.seedUser(t, "alice@example.com", nil)

	login, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(context.Background(), usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	// The revoked token no longer refreshes.
	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// A second logout with the same token is rejected, not silently accepted.
	err = f.auth.Logout(context.Background(), usecase.LogoutInput{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrLogoutTokenInvalid))
}

func TestAuthService_LogoutUnknownToken(t *testing.T) {
	f := createTestServices(t)

	err := f.auth.Logout(context.Background(), usecase.LogoutInput{RefreshToken: "never-issued"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLogoutTokenInvalid))
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	out, err := f.auth.RequestPasswordReset(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, out.ResetToken)

	claims, err := f.tokenSvc.ValidateToken(out.ResetToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_RequestPasswordResetUnknownEmail(t *testing.T) {
	f := createTestServices(t)

	_, err := f.auth.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailNotFound))
}

func TestAuthService_ResetPasswordRevokesAllSessions(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	input := usecase.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}
	first, err := f.auth.Login(context.Background(), input)
	require.NoError(t, err)
	second, err := f.auth.Login(context.Background(), input)
	require.NoError(t, err)

	reset, err := f.auth.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	err = f.auth.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:       reset.ResetToken,
		NewPassword: "BrandNewPass456!",
	})
	require.NoError(t, err)

	// Every pre-reset session is dead.
	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: first.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
	_, err = f.auth.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: second.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// The old password no longer works; the new one does.
	_, err = f.auth.Login(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	out, err := f.auth.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "BrandNewPass456!",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
}

func TestAuthService_ResetPasswordRejectsOtherTokenTypes(t *testing.T) {
	f := createTestServices(t)
	user := f.seedUser(t, "alice@example.com", nil)

	refreshToken, err := f.tokenSvc.GenerateRefreshToken(user.ID)
	require.NoError(t, err)
	accessToken, err := f.tokenSvc.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	for _, token := range []string{refreshToken, accessToken, "garbage"} {
		err := f.auth.ResetPassword(context.Background(), usecase.ResetPasswordInput{
			Token:       token,
			NewPassword: "BrandNewPass456!",
		})
		assert.True(t, errors.Is(err, domainerrors.ErrResetTokenInvalid))
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := createTestServices(t)
	role := f.seedRole(t, entity.RoleNameAdmin)
	user := f.seedUser(t, "alice@example.com", &role.ID)

	got, err := f.auth.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.Role)
	assert.Equal(t, entity.RoleNameAdmin, got.Role.Name)
}
