package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/spec-kit/placement-studio/internal/auth"
	"github.com/spec-kit/placement-studio/internal/config"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// AuthService authenticates the single workspace operator.
type AuthService struct {
	operator     string
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService hashes the configured operator password once at startup.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash, err := auth.HashPassword(cfg.OperatorPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		operator:     cfg.OperatorName,
		passwordHash: hash,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}, nil
}

// Login checks the operator credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return "", time.Time{}, err
	}
	nameOK := subtle.ConstantTimeCompare([]byte(name), []byte(s.operator)) == 1
	if err := auth.ComparePassword(s.passwordHash, password); err != nil || !nameOK {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokenMgr.GenerateToken(s.operator)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
