package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/health", HealthCheck)

	w := performRequest(router, http.MethodGet, "/api/v1/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "AdCut API is running", response["message"])
}

func TestDatabaseStatus(t *testing.T) {
	setupTestDB(t)
	router := gin.New()
	router.GET("/api/v1/database/status", DatabaseStatus)

	w := performRequest(router, http.MethodGet, "/api/v1/database/status", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode(t, w)
	assert.Equal(t, "Database connected", response["message"])
	assert.Contains(t, response["tables"], "orders")
	assert.Contains(t, response["tables"], "order_events")
}
