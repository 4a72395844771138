package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "coursegate/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Reconcile sharedConfig.ReconcileConfig `mapstructure:"reconcile"`
	Catalog   sharedConfig.CatalogConfig   `mapstructure:"catalog"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
	Providers sharedConfig.ProvidersConfig `mapstructure:"providers"`
	PlansFile string                       `mapstructure:"plans_file"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from configs/config.yaml and COURSEGATE_* environment variables.
// A .env file in the working directory is honoured outside production.
func Load(env string) (*Config, error) {
	if env != "production" {
		// Missing .env is the normal case.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("COURSEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration, or nil before Load.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "America/Sao_Paulo")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "coursegate_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("reconcile.provider_timeout_seconds", 10)
	v.SetDefault("reconcile.async_timeout_seconds", 60)
	v.SetDefault("reconcile.webhook_retention_days", 90)

	v.SetDefault("catalog.refresh_interval_minutes", 30)

	v.SetDefault("rate_limit.reconcile_per_minute", 6)
	v.SetDefault("rate_limit.reconcile_per_hour", 60)
	v.SetDefault("rate_limit.webhook_per_minute", 600)

	v.SetDefault("providers.recurring.enabled", true)
	v.SetDefault("providers.recurring.default_course", "escola-online")
	v.SetDefault("providers.installment.enabled", true)
	v.SetDefault("providers.installment.default_course", "escola-online")
	v.SetDefault("providers.installment.grace_days", 365)
	v.SetDefault("providers.recurring.webhook_secret", "")
	v.SetDefault("providers.installment.webhook_secret", "")

	v.SetDefault("plans_file", "./configs/plans.yaml")
}
