package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tzavrishon/prep-backend/internal/config"
	"github.com/tzavrishon/prep-backend/internal/model"
)

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeGuestStore) {
	users := newFakeUserStore()
	guests := newFakeGuestStore()
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	return NewAuthService(users, guests, cfg), users, guests
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "dana@example.com",
		Name:     "Dana",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "dana@example.com", reg.User.Email)
	assert.NotEqual(t, "correct horse", reg.User.PasswordHash)

	login, err := svc.Login(ctx, model.LoginRequest{
		Email:    "dana@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	req := model.RegisterRequest{Email: "dana@example.com", Name: "Dana", Password: "correct horse"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "dana@example.com",
		Name:     "Dana",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "dana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _, _ := newAuthFixture()
	other, _, _ := newAuthFixture()
	other.cfg.JWTSecret = "different-secret"

	resp, err := other.Register(context.Background(), model.RegisterRequest{
		Email:    "dana@example.com",
		Name:     "Dana",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	assert.Error(t, err)
}

func TestGuestMintsIdentity(t *testing.T) {
	svc, _, guests := newAuthFixture()

	g, err := svc.Guest(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, g.GuestID)
	assert.Contains(t, guests.guests, g.GuestID)
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "dana@example.com",
		Name:     "Dana",
		Password: "correct horse",
	})
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", user.Name)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
