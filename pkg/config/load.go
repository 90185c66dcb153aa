package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var eventBusDrivers = []string{"memory", "redis", "kafka"}

// Load reads the first environment file found among envFilePath (searched
// upwards from the working directory), falling back to ./.env, and then
// processes the environment into an App.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Info("Loaded environment from file", "path", foundPath)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"auth_jwt_expiry", cfg.Auth.Jwt.Expiry,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"event_bus", cfg.EventBus.Driver,
		"transfer_batch_size", cfg.Transfer.BatchSize,
		"transfer_timeout", cfg.Transfer.Timeout,
	)
	return &cfg, nil
}

func (c *App) validate() error {
	if !slices.Contains(eventBusDrivers, c.EventBus.Driver) {
		return fmt.Errorf("EVENT_BUS_DRIVER must be one of %v, got %q", eventBusDrivers, c.EventBus.Driver)
	}
	if c.Transfer.BatchSize < 1 {
		return fmt.Errorf("TRANSFER_BATCH_SIZE must be positive, got %d", c.Transfer.BatchSize)
	}
	if c.Transfer.Timeout <= 0 {
		return fmt.Errorf("TRANSFER_TIMEOUT must be positive, got %s", c.Transfer.Timeout)
	}
	return nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
