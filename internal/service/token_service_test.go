package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

func newTokenService(t *testing.T, password string) *TokenService {
	t.Helper()
	cfg := infrastructure.DefaultConfig().JWT
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.AdminPasswordHash = string(hashed)
	}
	return NewTokenService(&cfg, noop.NewTracerProvider().Tracer("test"), zap.NewNop())
}

func TestTokenService_LoginAndValidate(t *testing.T) {
	svc := newTokenService(t, "hunter2")
	ctx := context.Background()

	_, err := svc.Login(ctx, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	tokens, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tokens.ExpiresAt, time.Minute)

	jti, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	_, err = svc.ValidateAccessToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "refresh tokens cannot access admin routes")
}

func TestTokenService_Refresh(t *testing.T) {
	svc := newTokenService(t, "hunter2")
	ctx := context.Background()

	tokens, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = svc.RefreshToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = svc.RefreshToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_LoginDisabledWithoutHash(t *testing.T) {
	svc := newTokenService(t, "")

	_, err := svc.Login(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	svc := newTokenService(t, "hunter2")
	other := newTokenService(t, "hunter2")
	other.jwtConfig.SecretKey = "another-secret"

	tokens, err := other.Login(context.Background(), "hunter2")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")))
}
