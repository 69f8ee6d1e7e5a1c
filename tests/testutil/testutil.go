package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// AdminPassword is the plaintext behind TestConfig's ADMIN_PASSWORD_HASH
const AdminPassword = "correct-horse-battery"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if err := os.Setenv("USE_SQLITE", "true"); err != nil {
		t.Fatalf("Failed to set USE_SQLITE=true: %v", err)
	}

	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// TestConfig returns a configuration suitable for running the full router in tests.
// Rate limits are generous enough not to interfere unless a test lowers them.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}

	return &config.Config{
		UseSQLite:           true,
		GoEnv:               "test",
		PublicSiteURL:       "https://adcut.test",
		InvoiceDiscountRate: 10,
		AdminPasswordHash:   string(hash),
		JWTSecret:           "integration-test-secret",
		JWTIssuer:           "adcut-api",
		JWTAudience:         "adcut-admin",
		AdminSessionTTL:     time.Hour,
		ChatRateLimit:       100,
		ImageRateLimit:      100,
		LoginRateLimit:      100,
		RateLimitWindow:     time.Minute,
		CompletionTimeout:   5 * time.Second,
		ImageTimeout:        5 * time.Second,
		UploadTimeout:       5 * time.Second,
		Currency:            "krw",
	}
}

// NewTestDB opens a migrated in-memory database and installs it as the global DB
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// each connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// ResetProviders unregisters every third-party integration
func ResetProviders() {
	services.SetChatCompleter(nil)
	services.SetImageGenerator(nil)
	services.SetPaymentProvider(nil)
	services.SetCRMTagger(nil)
	services.SetVideoTranscoder(nil)
	services.SetImageService(nil)
	services.SetS3Service(nil)
	services.SetRateLimiter(nil)
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  USE_SQLITE: %s\n", os.Getenv("USE_SQLITE"))
	fmt.Printf("  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
}

// maskDatabaseURL hides credentials, keeping only scheme and host
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	if at := strings.LastIndex(url, "@"); at >= 0 {
		if scheme := strings.Index(url, "://"); scheme >= 0 && scheme < at {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	return url
}
