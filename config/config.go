package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	UseSQLite   bool   `envconfig:"USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"adcut.db"`
	Port        string `envconfig:"PORT" default:"8080"`
	GoEnv       string `envconfig:"GO_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`

	PublicSiteURL      string   `envconfig:"PUBLIC_SITE_URL" default:"http://localhost:3000"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Admin back office
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	JWTIssuer         string        `envconfig:"JWT_ISSUER" default:"adcut-api"`
	JWTAudience       string        `envconfig:"JWT_AUDIENCE" default:"adcut-admin"`
	AdminSessionTTL   time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"12h"`

	// Rate limiting (disabled when REDIS_URL is empty)
	RedisURL        string        `envconfig:"REDIS_URL"`
	ChatRateLimit   int           `envconfig:"CHAT_RATE_LIMIT" default:"30"`
	ImageRateLimit  int           `envconfig:"IMAGE_RATE_LIMIT" default:"5"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10m"`

	// Text completion provider
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"30s"`

	// Image generation provider
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string        `envconfig:"GEMINI_BASE_URL"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash-image"`
	ImageTimeout  time.Duration `envconfig:"IMAGE_TIMEOUT" default:"90s"`

	// Payment provider
	StripeSecretKey  string `envconfig:"STRIPE_SECRET_KEY"`
	StripeSuccessURL string `envconfig:"STRIPE_SUCCESS_URL" default:"http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}"`
	StripeCancelURL  string `envconfig:"STRIPE_CANCEL_URL" default:"http://localhost:3000/checkout/cancel"`
	Currency         string `envconfig:"CURRENCY" default:"krw"`

	// Pricing
	InvoiceDiscountRate int `envconfig:"INVOICE_DISCOUNT_RATE" default:"10"`

	// CRM tagging provider
	MailchimpAPIKey       string `envconfig:"MAILCHIMP_API_KEY"`
	MailchimpServerPrefix string `envconfig:"MAILCHIMP_SERVER_PREFIX"`
	MailchimpListID       string `envconfig:"MAILCHIMP_LIST_ID"`

	// Video transcode provider
	CloudinaryCloudName string        `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string        `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string        `envconfig:"CLOUDINARY_API_SECRET"`
	UploadTimeout       time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"5m"`

	// Asset storage
	AWSRegion          string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	AWSS3Bucket        string `envconfig:"AWS_S3_BUCKET"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AssetBaseURL       string `envconfig:"ASSET_BASE_URL"`
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfig = &cfg
	return &cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	var err error
	if c.DatabaseURL == "" && !c.UseSQLite {
		err = multierr.Append(err, errors.New("DATABASE_URL is required"))
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			err = multierr.Append(err, errors.New("JWT_SECRET is required in production"))
		}
		if c.AdminPasswordHash == "" {
			err = multierr.Append(err, errors.New("ADMIN_PASSWORD_HASH is required in production"))
		}
	}
	if c.InvoiceDiscountRate < 0 || c.InvoiceDiscountRate > 100 {
		err = multierr.Append(err, errors.New("INVOICE_DISCOUNT_RATE must be between 0 and 100"))
	}
	return err
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetDatabaseURL returns the database URL
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// TrackingURL returns the public page where a customer follows an order or inquiry
func (c *Config) TrackingURL(id string) string {
	return strings.TrimRight(c.PublicSiteURL, "/") + "/track/" + id
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}
