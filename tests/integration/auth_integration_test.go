package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/adcut-studio/adcut-api/routes"
	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/tests/testutil"
)

// AuthIntegrationTestSuite covers admin login and the admin route guard
type AuthIntegrationTestSuite struct {
	apiSuite
}

// TestPublicEndpoint tests that public endpoints work without authentication
func (s *AuthIntegrationTestSuite) TestPublicEndpoint() {
	w, response := s.request(http.MethodGet, "/api/v1/pricing", nil, "")

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), true, response["success"])
}

// TestLoginThenAdminCall exchanges the password for a token and uses it
func (s *AuthIntegrationTestSuite) TestLoginThenAdminCall() {
	w, response := s.request(http.MethodPost, "/api/v1/admin/session", map[string]string{
		"name": "jiwoo", "password": testutil.AdminPassword,
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	token := dataMap(response)["token"].(string)
	assert.NotEmpty(s.T(), token)

	w, _ = s.request(http.MethodGet, "/api/v1/admin/orders", nil, token)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

// TestLoginWrongPassword tests that a bad password is rejected without a token
func (s *AuthIntegrationTestSuite) TestLoginWrongPassword() {
	w, response := s.request(http.MethodPost, "/api/v1/admin/session", map[string]string{
		"name": "jiwoo", "password": "letmein",
	}, "")

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), services.CodeInvalidCredentials, errorCode(response))
	assert.Nil(s.T(), response["data"])
}

// TestProtectedEndpointRejectsBadTokens covers missing, forged and expired tokens
func (s *AuthIntegrationTestSuite) TestProtectedEndpointRejectsBadTokens() {
	forged, _, err := services.NewAdminAuthService("", "some-other-secret", s.cfg.JWTIssuer, s.cfg.JWTAudience, time.Hour).Mint("mallory")
	s.Require().NoError(err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"malformed token", "not-a-jwt"},
		{"token signed with another secret", forged},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w, response := s.request(http.MethodGet, "/api/v1/admin/orders", nil, tt.token)
			assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
			assert.Equal(s.T(), "INVALID_TOKEN", errorCode(response))
		})
	}
}

// TestLoginRateLimit blocks repeated attempts from one client
func (s *AuthIntegrationTestSuite) TestLoginRateLimit() {
	cfg := *s.cfg
	cfg.LoginRateLimit = 3
	s.router = routes.Setup(&cfg)

	var last int
	for i := 0; i < 4; i++ {
		w, _ := s.request(http.MethodPost, "/api/v1/admin/session", map[string]string{
			"name": "jiwoo", "password": "guess",
		}, "")
		last = w.Code
		if i < 3 {
			assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
		}
	}

	assert.Equal(s.T(), http.StatusTooManyRequests, last)
}

// TestRateLimiterOutageFailsOpen keeps login available when Redis errors
func (s *AuthIntegrationTestSuite) TestRateLimiterOutageFailsOpen() {
	s.limiter.Err = assert.AnError

	w, _ := s.request(http.MethodPost, "/api/v1/admin/session", map[string]string{
		"name": "jiwoo", "password": testutil.AdminPassword,
	}, "")

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
