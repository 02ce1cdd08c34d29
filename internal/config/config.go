package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from environment variables.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Render RenderConfig `mapstructure:"render"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// RenderConfig 包含栅格化相关的限制。
type RenderConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxWidthPx     int `mapstructure:"max_width_px"`
	MaxBatch       int `mapstructure:"max_batch"`
}

// Timeout 返回单次栅格化的整体超时。
func (r RenderConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("render.timeout_seconds", 60)
	v.SetDefault("render.max_width_px", 2048)
	v.SetDefault("render.max_batch", 50)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":               "API_PORT",
		"render.timeout_seconds": "RENDER_TIMEOUT_SECONDS",
		"render.max_width_px":    "RENDER_MAX_WIDTH_PX",
		"render.max_batch":       "RENDER_MAX_BATCH",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Render.TimeoutSeconds <= 0 {
		return errors.New("render timeout must be positive")
	}
	if cfg.Render.MaxWidthPx <= 0 {
		return errors.New("render max width must be positive")
	}
	if cfg.Render.MaxBatch <= 0 {
		return errors.New("render max batch must be positive")
	}
	return nil
}
