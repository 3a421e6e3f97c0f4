// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvLogLevel       = "BARREL_MCP_LOG_LEVEL"
	EnvMaxImageDim    = "BARREL_MCP_MAX_IMAGE_DIM"
	EnvCacheSize      = "BARREL_MCP_CACHE_SIZE"
	EnvImageCacheSize = "BARREL_MCP_IMAGE_CACHE_SIZE"
)

// Config holds the runtime settings of the server.
type Config struct {
	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	LogLevel string

	// MaxImageDim caps the longest side of a loaded photo in pixels. Larger
	// images are downscaled before extraction. Zero disables the cap.
	MaxImageDim int

	// CacheSize is the number of extracted contours kept in memory.
	CacheSize int

	// ImageCacheSize is the number of decoded rasters kept in memory.
	ImageCacheSize int
}

// Default returns the settings used when no environment overrides are present.
func Default() Config {
	return Config{
		LogLevel:       "info",
		MaxImageDim:    2048,
		CacheSize:      128,
		ImageCacheSize: 32,
	}
}

// Load reads the environment on top of Default.
func Load() (Config, error) {
	cfg := Default()
	cfg.LogLevel = strings.ToLower(getEnv(EnvLogLevel, cfg.LogLevel))

	var err error
	if cfg.MaxImageDim, err = getEnvInt(EnvMaxImageDim, cfg.MaxImageDim, 0); err != nil {
		return cfg, err
	}
	if cfg.CacheSize, err = getEnvInt(EnvCacheSize, cfg.CacheSize, 1); err != nil {
		return cfg, err
	}
	if cfg.ImageCacheSize, err = getEnvInt(EnvImageCacheSize, cfg.ImageCacheSize, 1); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Debug reports whether verbose logging was requested.
func (c Config) Debug() bool {
	return c.LogLevel == "debug" || c.LogLevel == "trace"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal, min int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < min {
		return defaultVal, fmt.Errorf("invalid %s: %d is below %d", key, n, min)
	}
	return n, nil
}
