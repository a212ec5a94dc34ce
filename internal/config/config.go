package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string

	Database DatabaseConfig
	Mailer   MailerConfig
	Tokens   TokenConfig

	AppURL string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// MailerConfig holds SMTP configuration
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// TokenConfig holds one signing secret and TTL per token kind.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	RecoverSecret string
	SignupSecret  string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	RecoverTTL time.Duration
	SignupTTL  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hospital"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	mailerConfig := MailerConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@hospital-booking.local"),
	}

	accessTTLHours, err := strconv.Atoi(getEnv("AUTH_ACCESS_TOKEN_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ACCESS_TOKEN_HOURS: %w", err)
	}

	refreshTTLHours, err := strconv.Atoi(getEnv("AUTH_REFRESH_TOKEN_HOURS", "720")) // 30 days
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_REFRESH_TOKEN_HOURS: %w", err)
	}

	recoverTTLMinutes, err := strconv.Atoi(getEnv("AUTH_RECOVER_TOKEN_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RECOVER_TOKEN_MINUTES: %w", err)
	}

	signupTTLHours, err := strconv.Atoi(getEnv("AUTH_SIGNUP_TOKEN_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_SIGNUP_TOKEN_HOURS: %w", err)
	}

	tokenConfig := TokenConfig{
		AccessSecret:  getEnv("AUTH_ACCESS_TOKEN_KEY", "default_access_secret"),
		RefreshSecret: getEnv("AUTH_REFRESH_TOKEN_KEY", "default_refresh_secret"),
		RecoverSecret: getEnv("AUTH_RECOVER_TOKEN_KEY", "default_recover_secret"),
		SignupSecret:  getEnv("AUTH_DOCTOR_REQUEST_TOKEN_KEY", "default_signup_secret"),
		AccessTTL:     time.Duration(accessTTLHours) * time.Hour,
		RefreshTTL:    time.Duration(refreshTTLHours) * time.Hour,
		RecoverTTL:    time.Duration(recoverTTLMinutes) * time.Minute,
		SignupTTL:     time.Duration(signupTTLHours) * time.Hour,
	}

	// Return complete configuration
	return &Config{
		Port:        getEnv("SERVER_PORT", "5000"),
		Origin:      getEnv("ORIGIN", "http://localhost:3000"),
		Environment: getEnv("APP_ENV", "development"),
		Database:    dbConfig,
		Mailer:      mailerConfig,
		Tokens:      tokenConfig,
		AppURL:      getEnv("APP_URL", "http://localhost:5000"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
