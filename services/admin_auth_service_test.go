package services

import (
	"context"
	"testing"
	"time"

	"github.com/adcut-studio/adcut-api/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAdminAuth(t *testing.T) *AdminAuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthService(string(hash), "test-secret", "adcut-api", "adcut-admin", time.Hour)
}

func TestAdminAuthLogin(t *testing.T) {
	service := newTestAdminAuth(t)

	session, err := service.Login(context.Background(), " minji ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "minji", session.Actor)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithIssuer("adcut-api"), jwt.WithAudience("adcut-admin"), jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "minji", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAdminAuthLoginFailures(t *testing.T) {
	service := newTestAdminAuth(t)

	tests := []struct {
		name     string
		user     string
		password string
		code     string
	}{
		{"wrong password", "minji", "nope", CodeInvalidCredentials},
		{"missing name", "", "correct horse", utils.CodeValidation},
		{"missing password", "minji", "", utils.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.user, tt.password)
			appErr, ok := utils.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	unconfigured := NewAdminAuthService("", "", "adcut-api", "adcut-admin", time.Hour)
	_, err := unconfigured.Login(context.Background(), "minji", "x")
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, utils.CodeNotConfigured, appErr.Code)
}

func TestAdminAuthMintRequiresTTL(t *testing.T) {
	service := NewAdminAuthService("", "secret", "iss", "aud", 0)
	_, _, err := service.Mint("minji")
	assert.Error(t, err)
}
