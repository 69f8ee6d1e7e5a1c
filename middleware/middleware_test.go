package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/adcut-studio/adcut-api/services"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", w.Body.String())
	})
}

func TestRecoverer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(), Recoverer())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func newLimitedRouter(limiter services.RateLimiter, policy RateLimitPolicy) *gin.Engine {
	router := gin.New()
	router.POST("/chat", RateLimit(limiter, policy), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.RemoteAddr = ip + ":5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("blocks after the limit per ip", func(t *testing.T) {
		router := newLimitedRouter(services.NewMockRateLimiter(), NewRateLimitPolicy("chat", 2, time.Minute))

		assert.Equal(t, http.StatusNoContent, hit(router, "10.0.0.1").Code)
		assert.Equal(t, http.StatusNoContent, hit(router, "10.0.0.1").Code)

		w := hit(router, "10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "RATE_LIMITED")

		assert.Equal(t, http.StatusNoContent, hit(router, "10.0.0.2").Code)
	})

	t.Run("fails open when the limiter errors", func(t *testing.T) {
		limiter := services.NewMockRateLimiter()
		limiter.Err = errors.New("redis down")
		router := newLimitedRouter(limiter, NewRateLimitPolicy("chat", 1, time.Minute))

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusNoContent, hit(router, "10.0.0.1").Code)
		}
	})

	t.Run("disabled without limiter or limit", func(t *testing.T) {
		for _, router := range []*gin.Engine{
			newLimitedRouter(nil, NewRateLimitPolicy("chat", 1, time.Minute)),
			newLimitedRouter(services.NewMockRateLimiter(), NewRateLimitPolicy("chat", 0, time.Minute)),
		} {
			for i := 0; i < 3; i++ {
				assert.Equal(t, http.StatusNoContent, hit(router, "10.0.0.1").Code)
			}
		}
	})
}
