package testutil

import (
	"net/http"
	"testing"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/services"
)

// AdminToken mints a session token for actor with the configured admin secret
func AdminToken(t *testing.T, cfg *config.Config, actor string) string {
	t.Helper()

	token, _, err := services.NewAdminAuthService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AdminSessionTTL).
		Mint(actor)
	if err != nil {
		t.Fatalf("failed to mint admin token: %v", err)
	}
	return token
}

// SetBearer attaches an admin token to a request
func SetBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
