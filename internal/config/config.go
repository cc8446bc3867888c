package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/demikl/tarnfui/internal/logic/schedule"
)

// Config is the process configuration, loaded once at startup and immutable
// afterwards. Invalid values fail fast, before any reconciliation runs.
type Config struct {
	KubeConfig string
	KubeMaster string

	StartupTime   schedule.TimeOfDay
	ShutdownTime  schedule.TimeOfDay
	ActiveDays    map[time.Weekday]bool
	Timezone      *time.Location
	Interval      time.Duration
	Namespace     string
	ResourceTypes []string
	ReconcileOnce bool

	LogLevel    string
	LogFormat   string
	HTTPPort    string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig:  getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster:  getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		Namespace:   os.Getenv(envKeyNamespace),
		LogLevel:    getEnvOrDefault(envKeyLogLevel, defaultLogLevel),
		LogFormat:   getEnvOrDefault(envKeyLogFormat, defaultLogFormat),
		HTTPPort:    getEnvOrDefault(envKeyHTTPPort, defaultHTTPPort),
		MetricsPort: getEnvOrDefault(envKeyMetricsPort, defaultMetricsPort),
	}

	var err error

	cfg.StartupTime, err = schedule.ParseTimeOfDay(getEnvOrDefault(envKeyStartupTime, defaultStartupTime))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyStartupTime, err)
	}

	cfg.ShutdownTime, err = schedule.ParseTimeOfDay(getEnvOrDefault(envKeyShutdownTime, defaultShutdownTime))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyShutdownTime, err)
	}

	cfg.ActiveDays, err = schedule.ParseWeekdays(getEnvOrDefault(envKeyActiveDays, defaultActiveDays))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyActiveDays, err)
	}

	cfg.Timezone, err = time.LoadLocation(getEnvOrDefault(envKeyTimezone, defaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyTimezone, err)
	}

	cfg.Interval, err = parseInterval(getEnvOrDefault(envKeyInterval, defaultInterval))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyInterval, err)
	}

	cfg.ResourceTypes = parseList(os.Getenv(envKeyResourceTypes))

	cfg.ReconcileOnce, err = parseBool(getEnvOrDefault(envKeyReconcileOnce, "false"))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envKeyReconcileOnce, err)
	}

	return cfg, nil
}

// Window builds the schedule window from the loaded configuration.
func (c *Config) Window() schedule.Window {
	return schedule.Window{
		Startup:    c.StartupTime,
		Shutdown:   c.ShutdownTime,
		ActiveDays: c.ActiveDays,
		Location:   c.Timezone,
	}
}

// parseInterval accepts bare seconds ("60") or a Go duration ("5m"). The
// interval must be positive.
func parseInterval(s string) (time.Duration, error) {
	var d time.Duration

	if seconds, err := strconv.Atoi(s); err == nil {
		d = time.Duration(seconds) * time.Second
	} else {
		var parseErr error

		d, parseErr = time.ParseDuration(s)
		if parseErr != nil {
			return 0, fmt.Errorf("interval %q: expected seconds or duration: %w", s, parseErr)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("interval %q must be positive", s)
	}

	return d, nil
}

func parseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected boolean, got %q: %w", s, err)
	}

	return v, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey string) string {
	value := os.Getenv(key)
	if value == "" {
		return os.Getenv(fallbackKey)
	}

	return value
}
