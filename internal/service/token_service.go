package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

const adminSubject = "admin"

// TokenService issues and validates the admin JWTs guarding operational endpoints
type TokenService struct {
	jwtConfig *infrastructure.JWTConfig
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewTokenService creates a new token service
func NewTokenService(jwtConfig *infrastructure.JWTConfig, tracer trace.Tracer, logger *zap.Logger) *TokenService {
	return &TokenService{
		jwtConfig: jwtConfig,
		tracer:    tracer,
		logger:    logger,
	}
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// HashPassword returns the bcrypt hash to configure as ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Login checks password against the configured admin hash and returns tokens
func (s *TokenService) Login(ctx context.Context, password string) (*TokenPair, error) {
	_, span := s.tracer.Start(ctx, "TokenService.Login")
	defer span.End()

	if s.jwtConfig.AdminPasswordHash == "" {
		s.logger.Warn("Admin login attempted but no admin password is configured")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.jwtConfig.AdminPasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Admin login failed")
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin logged in")
	return tokens, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *TokenService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	_, span := s.tracer.Start(ctx, "TokenService.RefreshToken")
	defer span.End()

	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return nil, domain.ErrInvalidToken
	}

	return s.generateTokenPair()
}

// ValidateAccessToken validates an access token and returns its token id
func (s *TokenService) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return "", domain.ErrInvalidToken
	}

	if sub, ok := claims["sub"].(string); !ok || sub != adminSubject {
		return "", domain.ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	return jti, nil
}

// generateTokenPair creates access and refresh tokens for the admin
func (s *TokenService) generateTokenPair() (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.jwtConfig.AccessTokenExpiry)
	refreshExpiry := now.Add(s.jwtConfig.RefreshTokenExpiry)

	accessClaims := jwt.MapClaims{
		"sub":  adminSubject,
		"jti":  uuid.NewString(),
		"type": "access",
		"iat":  now.Unix(),
		"exp":  accessExpiry.Unix(),
		"iss":  s.jwtConfig.Issuer,
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtConfig.SecretKey))
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"sub":  adminSubject,
		"jti":  uuid.NewString(),
		"type": "refresh",
		"iat":  now.Unix(),
		"exp":  refreshExpiry.Unix(),
		"iss":  s.jwtConfig.Issuer,
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.jwtConfig.SecretKey))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresAt:    accessExpiry,
	}, nil
}

// validateToken validates a JWT token and returns its claims
func (s *TokenService) validateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer))

	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
