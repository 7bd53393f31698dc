// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/freshcart-backend/internal/config"
	"github.com/freshcart/freshcart-backend/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 1, RefreshTokenTTL: 24},
	}
	return NewAuthService(setupTestDB(t), cfg), cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tokens, err := svc.Register(&RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@test.local",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, models.UserRoleCustomer, tokens.User.Role)

	login, err := svc.Login(&LoginRequest{Email: "asha@test.local", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(&RegisterRequest{Name: "First", Email: "dup@test.local", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "Second", Email: "dup@test.local", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Asha", Email: "asha@test.local", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "asha@test.local", Password: "wrong-password1!A"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "missing@test.local", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginSuspendedUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tokens, err := svc.Register(&RegisterRequest{Name: "Asha", Email: "asha@test.local", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(&models.User{}).Where("id = ?", tokens.User.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(&LoginRequest{Email: "asha@test.local", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, ErrUserSuspended)
}

func TestRefreshTokens(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tokens, err := svc.Register(&RegisterRequest{Name: "Asha", Email: "asha@test.local", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh("not-a-token")
	assert.Error(t, err)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Asha", Email: "asha@test.local", Password: "short"})
	assert.Error(t, err)
}
