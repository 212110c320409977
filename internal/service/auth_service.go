package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("auth is not configured")
)

// AuthService issues session tokens for the studio. The tool is single-user:
// one shared password, hashed in the environment, one "lead" session role.
type AuthService struct {
	Config config.Config
	Logger *slog.Logger
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

type LoginInput struct {
	Password string
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if !s.Config.AuthEnabled() {
		return nil, ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.Config.LoginHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.Config.AccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        "studio",
		"role":       "lead",
		"token_type": "access",
		"iat":        time.Now().Unix(),
		"exp":        expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	s.Logger.Info("session issued", "expires_at", expiresAt)
	return &AuthResult{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
