package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/adcut-studio/adcut-api/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const CodeInvalidCredentials = "INVALID_CREDENTIALS"

// AdminSession is an issued back-office token
type AdminSession struct {
	Token     string    `json:"token"`
	Actor     string    `json:"actor"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminAuthService checks the shared admin password and mints HS256 session tokens
type AdminAuthService struct {
	passwordHash []byte
	secret       []byte
	issuer       string
	audience     string
	ttl          time.Duration
	now          func() time.Time
}

// NewAdminAuthService creates the admin authenticator; passwordHash is a bcrypt hash
func NewAdminAuthService(passwordHash, secret, issuer, audience string, ttl time.Duration) *AdminAuthService {
	return &AdminAuthService{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		issuer:       issuer,
		audience:     audience,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login verifies the password and issues a token whose subject is the operator name
func (s *AdminAuthService) Login(ctx context.Context, name, password string) (*AdminSession, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, utils.ValidationError("name and password are required")
	}
	if len(s.passwordHash) == 0 || len(s.secret) == 0 {
		return nil, utils.NewAppError(http.StatusServiceUnavailable, utils.CodeNotConfigured, "Admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
	}

	token, expiresAt, err := s.Mint(name)
	if err != nil {
		return nil, &utils.AppError{Code: utils.CodeInternal, Message: "Failed to issue session", Status: http.StatusInternalServerError, Err: err}
	}
	return &AdminSession{Token: token, Actor: name, ExpiresAt: expiresAt}, nil
}

// Mint signs a session token for subject
func (s *AdminAuthService) Mint(subject string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is required")
	}
	if s.ttl <= 0 {
		return "", time.Time{}, errors.New("session ttl must be positive")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing jwt: %w", err)
	}
	return signed, expiresAt, nil
}
