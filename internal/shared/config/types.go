package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Timezone decides where a business day ends for date-only provider fields.
	Timezone string `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the relational store. With the sqlite driver Database
// is a file path and the network fields are ignored.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns a MySQL DSN. Timestamps are parsed as UTC.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig describes how bearer tokens issued by the identity provider are verified.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type ReconcileConfig struct {
	ProviderTimeoutSeconds int `mapstructure:"provider_timeout_seconds"`
	AsyncTimeoutSeconds    int `mapstructure:"async_timeout_seconds"`
	WebhookRetentionDays   int `mapstructure:"webhook_retention_days"`
}

func (r *ReconcileConfig) ProviderTimeout() time.Duration {
	if r.ProviderTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.ProviderTimeoutSeconds) * time.Second
}

func (r *ReconcileConfig) AsyncTimeout() time.Duration {
	if r.AsyncTimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.AsyncTimeoutSeconds) * time.Second
}

// RateLimitConfig throttles the login hook per viewer and webhooks per provider.
// Zero disables a window.
type RateLimitConfig struct {
	ReconcilePerMinute int `mapstructure:"reconcile_per_minute"`
	ReconcilePerHour   int `mapstructure:"reconcile_per_hour"`
	WebhookPerMinute   int `mapstructure:"webhook_per_minute"`
}

type CatalogConfig struct {
	RefreshIntervalMinutes int `mapstructure:"refresh_interval_minutes"`
}

func (c *CatalogConfig) RefreshInterval() time.Duration {
	if c.RefreshIntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// ProviderConfig holds the endpoints and client credentials of one payment platform.
type ProviderConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BaseURL       string `mapstructure:"base_url"`
	TokenURL      string `mapstructure:"token_url"`
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
	DefaultCourse string `mapstructure:"default_course"`
	WebhookSecret string `mapstructure:"webhook_secret"`

	// GraceDays is only meaningful for installment purchases.
	GraceDays int `mapstructure:"grace_days"`
}

type ProvidersConfig struct {
	Recurring   ProviderConfig `mapstructure:"recurring"`
	Installment ProviderConfig `mapstructure:"installment"`
}

// WebhookSecrets maps each enabled provider to its webhook secret.
func (p *ProvidersConfig) WebhookSecrets() map[string]string {
	secrets := make(map[string]string, 2)
	if p.Recurring.Enabled && p.Recurring.WebhookSecret != "" {
		secrets["recurring"] = p.Recurring.WebhookSecret
	}
	if p.Installment.Enabled && p.Installment.WebhookSecret != "" {
		secrets["installment"] = p.Installment.WebhookSecret
	}
	return secrets
}
