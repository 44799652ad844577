// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	ClockTime     time.Duration
	MatchInterval time.Duration
	LogLevel      log.Level
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		ClockTime:     600 * time.Second,
		MatchInterval: time.Second,
		LogLevel:      log.LevelInfo,
	}
}

// Load starts from Default and applies XIANGQI_* environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("XIANGQI_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("XIANGQI_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv("XIANGQI_CLOCK_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("XIANGQI_CLOCK_TIME: invalid duration %q", v)
		}
		cfg.ClockTime = d
	}
	if v := getenv("XIANGQI_MATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("XIANGQI_MATCH_INTERVAL: invalid duration %q", v)
		}
		cfg.MatchInterval = d
	}
	if v := getenv("XIANGQI_LOG_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func ParseLevel(s string) (log.Level, error) {
	switch s {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
