package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Addr             string
	ShutdownTimeout  time.Duration
	MaxUploadBytes   int64
	DisplayPrecision int
	TelemetryEnabled bool
	ServiceName      string
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:             ":8080",
		ShutdownTimeout:  5 * time.Second,
		MaxUploadBytes:   10 << 20,
		DisplayPrecision: 10,
		TelemetryEnabled: true,
		ServiceName:      "go-chi-calculator",
	}
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	if v, ok := lookup("APP_ADDR"); ok && v != "" {
		cfg.Addr = v
	}

	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: invalid duration %q", v))
		} else {
			cfg.ShutdownTimeout = d
		}
	}

	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: invalid size %q", v))
		} else {
			cfg.MaxUploadBytes = n
		}
	}

	if v, ok := lookup("DISPLAY_PRECISION"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 19 {
			errs = append(errs, fmt.Errorf("DISPLAY_PRECISION: want 0..19, got %q", v))
		} else {
			cfg.DisplayPrecision = n
		}
	}

	if v, ok := lookup("TELEMETRY_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TELEMETRY_ENABLED: invalid bool %q", v))
		} else {
			cfg.TelemetryEnabled = b
		}
	}

	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && strings.TrimSpace(v) != "" {
		cfg.ServiceName = strings.TrimSpace(v)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
