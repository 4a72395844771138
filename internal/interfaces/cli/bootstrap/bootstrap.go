// Package bootstrap loads configuration and opens the shared connections every
// command needs.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"coursegate/internal/infrastructure/config"
	"coursegate/internal/infrastructure/database"
	httpRouter "coursegate/internal/interfaces/http"
	"coursegate/internal/shared/biztime"
	"coursegate/internal/shared/logger"
)

// Runtime is an initialized process: config, logger, database and redis.
type Runtime struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client
}

// Env resolves the environment from the flag value, letting ENV override it.
func Env(flag string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flag
}

// Init loads configuration for env and opens the database and redis.
func Init(env string) (*Runtime, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		_ = redisClient.Close()
		_ = database.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	return &Runtime{
		Config: cfg,
		Log:    log,
		DB:     database.Get(),
		Redis:  redisClient,
	}, nil
}

// Container wires the application on top of the runtime's connections.
func (r *Runtime) Container() (*httpRouter.Container, error) {
	return httpRouter.NewContainer(r.DB, r.Redis, r.Config, r.Log)
}

func (r *Runtime) Close() {
	if err := r.Redis.Close(); err != nil {
		r.Log.Warnw("failed to close redis", "error", err)
	}
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
