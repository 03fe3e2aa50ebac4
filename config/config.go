package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hannajonsd/structural-analysis/report"
	"github.com/hannajonsd/structural-analysis/resolve"
)

const (
	EnvWorkers   = "STRUCTCHECK_WORKERS"
	EnvFormat    = "STRUCTCHECK_FORMAT"
	EnvVerbose   = "STRUCTCHECK_VERBOSE"
	EnvCacheSize = "STRUCTCHECK_CACHE_SIZE"
)

type Config struct {
	Workers   int
	Format    report.Format
	Verbose   bool
	CacheSize int
}

func Default() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		Format:    report.FormatText,
		CacheSize: resolve.DefaultCacheSize,
	}
}

// Load reads an optional .env file and then the STRUCTCHECK_* variables.
// Command-line flags are applied on top by the caller.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup, starting from Default
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if raw := strings.TrimSpace(getenv(EnvWorkers)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, raw)
		}
		cfg.Workers = n
	}

	if raw := strings.TrimSpace(getenv(EnvFormat)); raw != "" {
		format, err := report.ParseFormat(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvFormat, err)
		}
		cfg.Format = format
	}

	if raw := strings.TrimSpace(getenv(EnvVerbose)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean, got %q", EnvVerbose, raw)
		}
		cfg.Verbose = v
	}

	if raw := strings.TrimSpace(getenv(EnvCacheSize)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s must be a non-negative integer, got %q", EnvCacheSize, raw)
		}
		cfg.CacheSize = n
	}

	return cfg, nil
}
