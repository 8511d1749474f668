package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server    ServerConfig
	Fonts     FontsConfig
	Snapshots SnapshotsConfig
	Preview   PreviewConfig
	Mirror    MirrorConfig
	Retry     RetryConfig
}

type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type FontsConfig struct {
	// Colon-separated list of candidate font files probed in order. The
	// embedded Go Regular face covers the case where none is usable.
	Candidates []string `env:"FONT_CANDIDATES" env-separator:":"`
}

type SnapshotsConfig struct {
	Dir string `env:"SNAPSHOT_DIR" env-default:"./snapshots"`
}

type PreviewConfig struct {
	ThumbnailSize int `env:"THUMBNAIL_SIZE" env-default:"96"`
}

type MirrorConfig struct {
	Enabled   bool   `env:"MIRROR_ENABLED" env-default:"false"`
	Endpoint  string `env:"MIRROR_ENDPOINT"`
	AccessKey string `env:"MIRROR_ACCESS_KEY"`
	SecretKey string `env:"MIRROR_SECRET_KEY"`
	Bucket    string `env:"MIRROR_BUCKET" env-default:"watermark-exports"`
	UseSSL    bool   `env:"MIRROR_USE_SSL" env-default:"false"`
}

type RetryConfig struct {
	Attempts int           `env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `env:"RETRY_DELAY" env-default:"500ms"`
	Backoff  float64       `env:"RETRY_BACKOFF" env-default:"2"`
}

func MustLoad() (*Config, error) {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
