package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Owner    OwnerConfig
	Verifier VerifierConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// OwnerConfig holds the bootstrap owner identity seeded at startup
type OwnerConfig struct {
	FullName string
	Handle   string
	Email    string
	Password string
}

// VerifierConfig holds external handle verifier configuration
type VerifierConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Owner:    loadOwnerConfig(),
		Verifier: loadVerifierConfig(),
	}

	AppConfig = config

	log.Printf("Configuration loaded [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "clubhub"),
	}
}

// loadJWTConfig loads JWT config based on mode.
// The access token window defaults to 7 days (10080 minutes), matching the
// lifetime clients were built against.
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "10080"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "30"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadOwnerConfig loads the bootstrap owner identity.
// The handle is reserved: registration against it skips external
// verification so the seed works without the verifier reachable.
func loadOwnerConfig() OwnerConfig {
	return OwnerConfig{
		FullName: getEnv("OWNER_FULL_NAME", "Club Owner"),
		Handle:   getEnv("OWNER_HANDLE", "root"),
		Email:    getEnv("OWNER_EMAIL", "owner@clubhub.local"),
		Password: getEnv("OWNER_PASSWORD", "changeme-now"),
	}
}

// loadVerifierConfig loads the external handle verifier settings
func loadVerifierConfig() VerifierConfig {
	enabled, _ := strconv.ParseBool(getEnv("HANDLE_VERIFY_ENABLED", "true"))
	timeoutSecs, _ := strconv.Atoi(getEnv("HANDLE_VERIFY_TIMEOUT_SECONDS", "5"))

	return VerifierConfig{
		Enabled: enabled,
		BaseURL: getEnv("HANDLE_VERIFY_BASE_URL", "https://codeforces.com/api"),
		Timeout: time.Duration(timeoutSecs) * time.Second,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://club.example.org"
	}
	return origins
}
