package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerStartup verifies the full router can be built
func TestServerStartup(t *testing.T) {
	router := setupRouter(t)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance simulates a real client calling the health endpoint
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	router := setupRouter(t)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	require.NoError(t, err, "Should be able to create request")

	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.statusCode, "Health endpoint should return 200 OK")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.body, &response), "Response should be valid JSON")
	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "AdCut API is running", response.Message)
}

// TestHealthEndpointAvailability tests that repeated requests succeed consistently
func TestHealthEndpointAvailability(t *testing.T) {
	router := setupRouter(t)

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
		recorder := &testResponseWriter{header: make(http.Header)}
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.statusCode, fmt.Sprintf("Request %d should succeed", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	router := setupRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := &testResponseWriter{header: make(http.Header)}

	start := time.Now()
	router.ServeHTTP(recorder, req)
	duration := time.Since(start)

	assert.Less(t, duration, 100*time.Millisecond, "Health endpoint should respond in less than 100ms")
}

// TestPublicOrderFormAcceptance submits the order form and reads it back through tracking
func TestPublicOrderFormAcceptance(t *testing.T) {
	router := setupRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"name":"Seo Yeon","email":"seo@example.com","pack":"fast"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.statusCode, string(recorder.body))

	var created struct {
		Data struct {
			ID          string `json:"id"`
			OrderNumber string `json:"order_number"`
			Status      string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.body, &created))
	assert.Equal(t, "pending", created.Data.Status)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/track/"+created.Data.OrderNumber, nil)
	recorder = &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.statusCode)

	var tracked struct {
		Data struct {
			ID        string `json:"id"`
			Step      int    `json:"step"`
			StepLabel string `json:"step_label"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.body, &tracked))
	assert.Equal(t, created.Data.ID, tracked.Data.ID)
	assert.Equal(t, 1, tracked.Data.Step)
	assert.Equal(t, "received", tracked.Data.StepLabel)
}

// testResponseWriter is a helper for acceptance testing
type testResponseWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (w *testResponseWriter) Header() http.Header {
	return w.header
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}
