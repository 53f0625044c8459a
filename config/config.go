// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret, required by the server.
	JWTSecret string

	// Server
	Debug            bool
	Port             string
	TLSDomains       []string
	RequireAuthReads bool
	AdminUsers       []string

	// Prediction pipeline
	ModelPath       string
	StatsWindow     int
	ScanDays        int
	MinValue        float64
	MinConfidence   float64
	PerformanceDays int
	TrainingLimit   int

	// Telegram – notifications are disabled when the token is empty.
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg := load()
	cfg.validate(true)
	return cfg
}

// LoadCLI is Load for the batch tools, which never issue tokens and so
// do not need JWT_SECRET.
func LoadCLI() *Config {
	cfg := load()
	cfg.validate(false)
	return cfg
}

func load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "footyvalue")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("REQUIRE_AUTH_READS", false)
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("MODEL_PATH", "models/prediction")
	v.SetDefault("STATS_WINDOW", 5)
	v.SetDefault("SCAN_DAYS", 7)
	v.SetDefault("MIN_VALUE", 0.05)
	v.SetDefault("MIN_CONFIDENCE", 0.1)
	v.SetDefault("PERFORMANCE_DAYS", 60)
	v.SetDefault("TRAINING_LIMIT", 5000)

	return &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Debug:            v.GetBool("DEBUG"),
		Port:             v.GetString("PORT"),
		TLSDomains:       splitTrimmed(v.GetString("TLS_DOMAINS")),
		RequireAuthReads: v.GetBool("REQUIRE_AUTH_READS"),
		AdminUsers:       splitTrimmed(v.GetString("ADMIN_USERS")),
		ModelPath:        v.GetString("MODEL_PATH"),
		StatsWindow:      v.GetInt("STATS_WINDOW"),
		ScanDays:         v.GetInt("SCAN_DAYS"),
		MinValue:         v.GetFloat64("MIN_VALUE"),
		MinConfidence:    v.GetFloat64("MIN_CONFIDENCE"),
		PerformanceDays:  v.GetInt("PERFORMANCE_DAYS"),
		TrainingLimit:    v.GetInt("TRAINING_LIMIT"),
		TelegramToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   v.GetInt64("TELEGRAM_CHAT_ID"),
	}
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// TelegramEnabled reports whether value picks should be published.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c *Config) validate(server bool) {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if server && c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.StatsWindow < 1 {
		log.Fatal("config: STATS_WINDOW must be at least 1")
	}
	if c.ModelPath == "" {
		log.Fatal("config: MODEL_PATH must not be empty")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
