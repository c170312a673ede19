// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SchedulerConfig provides settings for background task processing.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CacheConfig provides settings for the conversation context cache.
type CacheConfig interface {
	GetRedisURL() string
	GetContextCacheTTL() time.Duration
}

// EmailConfig provides settings for escalation alert email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetEscalationAlertAddress() string
}

// IntentConfig provides settings for the intent rule tables.
type IntentConfig interface {
	GetIntentRulesPath() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	RedisURL               string
	AsynqQueueName         string
	AsynqConcurrency       int
	ContextCacheTTL        time.Duration
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	RateLimitRPS           float64
	RateLimitBurst         int
	EmailEnabled           bool
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromName          string
	EmailFromAddress       string
	EscalationAlertAddress string
	IntentRulesPath        string
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true")

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ContextCacheTTL:        mustDuration(getEnv("CONTEXT_CACHE_TTL", "24h")),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:           mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:         mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		EmailEnabled:           emailEnabled,
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "Dealer Portal"),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
		EscalationAlertAddress: getEnv("ESCALATION_ALERT_ADDRESS", ""),
		IntentRulesPath:        getEnv("INTENT_RULES_PATH", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "" || cfg.EscalationAlertAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST, EMAIL_FROM_ADDRESS and ESCALATION_ALERT_ADDRESS are required when EMAIL_ENABLED is true")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetEnv() string                       { return c.Env }
func (c *Config) GetDatabaseURL() string               { return c.DatabaseURL }
func (c *Config) GetHTTPAddr() string                  { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool                { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string             { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool              { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64             { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int               { return c.RateLimitBurst }
func (c *Config) GetRedisURL() string                  { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string            { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int             { return c.AsynqConcurrency }
func (c *Config) GetContextCacheTTL() time.Duration    { return c.ContextCacheTTL }
func (c *Config) GetEmailEnabled() bool                { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string                  { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                     { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string              { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string              { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string             { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string          { return c.EmailFromAddress }
func (c *Config) GetEscalationAlertAddress() string    { return c.EscalationAlertAddress }
func (c *Config) GetIntentRulesPath() string           { return c.IntentRulesPath }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(val string) time.Duration {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func mustInt(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(val string) float64 {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
