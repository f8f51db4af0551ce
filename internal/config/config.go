package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath       string
	ServerPort   string
	LogLevel     string
	SchemaPath   string
	TickInterval time.Duration
	EventBuffer  int

	// event delivery, both optional
	WebhookURL   string
	RedisAddr    string
	RedisChannel string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "mpmatch.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SchemaPath:   getEnv("SCHEMA_PATH", "queues.yaml"),
		TickInterval: getEnvDuration("TICK_INTERVAL", time.Second),
		EventBuffer:  getEnvInt("EVENT_BUFFER", 1024),
		WebhookURL:   getEnv("WEBHOOK_URL", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "mpmatch:events"),
	}

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	if cfg.EventBuffer <= 0 {
		return nil, fmt.Errorf("EVENT_BUFFER must be positive, got %d", cfg.EventBuffer)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("schema_path", cfg.SchemaPath).
		Dur("tick_interval", cfg.TickInterval).
		Bool("webhook", cfg.WebhookURL != "").
		Bool("redis", cfg.RedisAddr != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
