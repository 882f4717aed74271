package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	LogLevel           string
	Auth0Domain        string
	Auth0Audience      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	UploadDir          string
	CORSOrigins        []string

	// Email channel (SMTP)
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string

	// WhatsApp channel (Twilio)
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	DefaultCountryCode string
	WhatsAppSendRate   int

	// Operator-configured extra contacts that receive every admin notification
	ClientEmail         string
	ClientWhatsAppPhone string

	OrgDisplayName       string
	NotifySendTimeout    time.Duration
	NotifyMaxConcurrency int
	DefaultDeliveryDays  int
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
			// In production, environment variables are set directly
			log.Debug().Msg("No .env file found, using system environment variables")
		}
	} else {
		log.Info().Str("file", envFile).Msg("Loaded configuration")
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		EmailFrom:     getEnv("EMAIL_FROM", ""),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Vee4 Group"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "91"),
		WhatsAppSendRate:   getEnvInt("WHATSAPP_SEND_RATE", 20),

		ClientEmail:         getEnv("CLIENT_EMAIL", ""),
		ClientWhatsAppPhone: getEnv("CLIENT_WHATSAPP_PHONE", ""),

		OrgDisplayName:       getEnv("ORG_DISPLAY_NAME", "Vee4 Admin"),
		NotifySendTimeout:    getEnvDuration("NOTIFY_SEND_TIMEOUT", 15*time.Second),
		NotifyMaxConcurrency: getEnvInt("NOTIFY_MAX_CONCURRENCY", 8),
		DefaultDeliveryDays:  getEnvInt("DEFAULT_DELIVERY_DAYS", 14),
	}

	if config.EmailFrom == "" {
		config.EmailFrom = config.SMTPUsername
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && !c.IsTest() {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.NotifyMaxConcurrency < 1 {
		return fmt.Errorf("NOTIFY_MAX_CONCURRENCY must be at least 1, got %d", c.NotifyMaxConcurrency)
	}
	if c.DefaultDeliveryDays < 0 {
		return fmt.Errorf("DEFAULT_DELIVERY_DAYS must not be negative, got %d", c.DefaultDeliveryDays)
	}
	return nil
}

// GetConfig returns the configuration loaded by Load
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
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

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// WhatsAppConfigured reports whether Twilio credentials are present.
func (c *Config) WhatsAppConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

// S3Configured reports whether documents should be stored in S3 rather than on local disk.
func (c *Config) S3Configured() bool {
	return c.AWSS3Bucket != "" && c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// GetDatabaseURL returns the database URL
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer in environment, using default")
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration in environment, using default")
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
