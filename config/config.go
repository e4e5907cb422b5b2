// config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is loaded once in main and
// passed down explicitly; nothing below main reads the environment directly.
type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	SessionExpiry time.Duration

	// DefaultRegion is the ISO 3166-1 region used to parse phone numbers
	// submitted without a country prefix.
	DefaultRegion string

	OTPExpiry     time.Duration
	OTPCodeLength int

	// OTPStaticCode makes the issuer hand out the fixed code 123456 instead
	// of a random one. Test/development only; must never be set in production.
	OTPStaticCode bool

	SMSDriver        string // "twilio" or "log"
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string
}

const (
	DefaultOTPExpiry     = 10 * time.Minute
	DefaultSessionExpiry = 7 * 24 * time.Hour
	DefaultOTPCodeLength = 6
)

// Load builds the configuration from environment variables. godotenv is
// expected to have been loaded by the caller already.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionExpiry:    DefaultSessionExpiry,
		DefaultRegion:    getEnv("DEFAULT_PHONE_REGION", "IN"),
		OTPExpiry:        DefaultOTPExpiry,
		OTPCodeLength:    DefaultOTPCodeLength,
		OTPStaticCode:    getEnv("OTP_STATIC_CODE", "false") == "true",
		SMSDriver:        getEnv("SMS_DRIVER", "log"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:  os.Getenv("TWILIO_FROM_PHONE"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if cfg.SMSDriver == "twilio" && (cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromPhone == "") {
		return nil, errors.New("twilio SMS driver requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_PHONE")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
