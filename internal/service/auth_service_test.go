package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/sms"
	"github.com/sunsetmemories/backend/pkg/jwt"
)

// captureSender remembers the last code handed to it
type captureSender struct {
	phone string
	code  string
}

func (s *captureSender) Send(_ context.Context, phone, code string) error {
	s.phone = phone
	s.code = code
	return nil
}

func setupAuthService(t *testing.T) (*AuthService, *captureSender) {
	t.Helper()
	db := setupTestDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sender := &captureSender{}
	userRepo := repository.NewUserRepository(db)
	jwtManager := jwt.NewManager("test-secret", 900, 86400)
	codeStore := sms.NewCodeStore(client)

	return NewAuthService(userRepo, jwtManager, codeStore, sender, client, ""), sender
}

func TestRegisterAndPasswordLogin(t *testing.T) {
	svc, _ := setupAuthService(t)

	user, err := svc.Register("13800000001", "secret123", "Li Hua", "")
	require.NoError(t, err)
	assert.Equal(t, "Li Hua", user.Nickname) // defaults to name

	resp, err := svc.LoginPassword("13800000001", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.LoginPassword("13800000001", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Register("13800000001", "secret123", "Li Hua", "")
	require.NoError(t, err)

	_, err = svc.Register("13800000001", "other456", "Impostor", "")
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestCodeLoginAutoRegisters(t *testing.T) {
	svc, sender := setupAuthService(t)
	ctx := context.Background()

	ttl, err := svc.RequestCode(ctx, "13900000002")
	require.NoError(t, err)
	assert.Positive(t, ttl)
	require.NotEmpty(t, sender.code)

	resp, err := svc.LoginWithCode(ctx, "13900000002", sender.code)
	require.NoError(t, err)
	assert.Equal(t, "13900000002", resp.User.Phone)
	assert.Equal(t, "user_0002", resp.User.Nickname)

	// Codes are single-use
	_, err = svc.LoginWithCode(ctx, "13900000002", sender.code)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCodeLoginRejectsWrongCode(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "13900000002")
	require.NoError(t, err)

	_, err = svc.LoginWithCode(ctx, "13900000002", "999999")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRefreshTokenFlow(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register("13800000001", "secret123", "Li Hua", "")
	require.NoError(t, err)
	login, err := svc.LoginPassword("13800000001", "secret123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register("13800000001", "secret123", "Li Hua", "")
	require.NoError(t, err)
	login, err := svc.LoginPassword("13800000001", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// Garbage tokens are ignored rather than rejected
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}
