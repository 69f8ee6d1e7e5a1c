package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:               "test",
		PublicSiteURL:       "https://adcut.test",
		InvoiceDiscountRate: 10,
		CompletionTimeout:   time.Second,
		ImageTimeout:        time.Second,
		UploadTimeout:       time.Second,
		JWTSecret:           "controller-test-secret",
		JWTIssuer:           "adcut-api",
		JWTAudience:         "adcut-admin",
		AdminSessionTTL:     time.Hour,
	}
}

// setupTestDB installs a fresh in-memory database and test config and clears every provider
func setupTestDB(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	config.SetDB(db)
	config.SetConfig(testConfig())
	resetProviders()
	t.Cleanup(func() {
		resetProviders()
		config.SetConfig(nil)
	})
	return db
}

func resetProviders() {
	services.SetChatCompleter(nil)
	services.SetImageGenerator(nil)
	services.SetPaymentProvider(nil)
	services.SetCRMTagger(nil)
	services.SetVideoTranscoder(nil)
	services.SetImageService(nil)
	services.SetS3Service(nil)
	services.SetRateLimiter(nil)
}

// withActor stands in for RequireAdmin
func withActor(actor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	}
}

func performRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	response := decode(t, w)
	errBody, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, got %s", w.Body.String())
	return errBody["code"].(string)
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	response := decode(t, w)
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "expected object data, got %s", w.Body.String())
	return data
}

func seedOrder(t *testing.T, db *gorm.DB, order models.Order) models.Order {
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.Source == "" {
		order.Source = models.SourceForm
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
