package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/utils"
)

const (
	actorKey  = "actor"
	claimsKey = "validated_claims"
)

// RequireAdmin validates the HS256 session token issued by the admin login.
// The token subject becomes the actor recorded on audit events.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	if cfg == nil || cfg.JWTSecret == "" {
		return func(c *gin.Context) {
			abortWithError(c, http.StatusServiceUnavailable, utils.CodeNotConfigured, "Admin access is not configured")
		}
	}

	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.Get().Error(context.Background(), "failed to set up the jwt validator", err)
		return func(c *gin.Context) {
			abortWithError(c, http.StatusServiceUnavailable, utils.CodeNotConfigured, "Admin access is not configured")
		}
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Get().Warn(logger.Get().WithField(r.Context(), "reason", err.Error()), "admin token rejected")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate admin token."}}`))
	}

	checker := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authorized := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			authorized = true
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			actor := claims.RegisteredClaims.Subject
			c.Set(actorKey, actor)
			c.Set(claimsKey, claims)
			c.Request = r.WithContext(logger.Get().WithActor(r.Context(), actor))

			c.Next()
		}

		checker.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !authorized {
			c.Abort()
		}
	}
}

// GetActor extracts the admin actor from the Gin context
func GetActor(c *gin.Context) (string, error) {
	actor, exists := c.Get(actorKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_ACTOR", Message: "Actor not found in context"}
	}

	actorStr, ok := actor.(string)
	if !ok || actorStr == "" {
		return "", &AuthError{Code: "INVALID_ACTOR", Message: "Actor is not a string"}
	}

	return actorStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
