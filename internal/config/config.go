// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skillcoder/specctl/internal/infra/logging"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	KubeConfig  string
	KubeMaster  string
	KubeContext string
	Namespaces  []string

	LogLevel  string
	LogFormat string

	HTTPPort        string
	MetricsPort     string
	PingerInterval  time.Duration
	MaxRequestBytes int64

	Source                string
	OutputDirectory       string
	TaskDefinitionFile    string
	ServiceDefinitionFile string
	TfvarsFile            string
	InputFile             string

	ExportSchedule string
	ExportTZ       string
	ObservedUsage  bool

	HealthCheckGracePeriod time.Duration
	RoleARNAnnotation      string
}

func Load() (*Config, error) {
	defaults := settings.Default()

	cfg := &Config{
		KubeConfig:            getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster:            getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		KubeContext:           os.Getenv(envKeyKubeContext),
		Namespaces:            SplitList(os.Getenv(envKeyNamespaces)),
		LogLevel:              getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:             getEnvOrDefault(envKeyLogFormat, logging.FormatJSON),
		HTTPPort:              getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort:           getEnvOrDefault(envKeyMetricsPort, "9090"),
		Source:                os.Getenv(envKeySource),
		OutputDirectory:       getEnvOrDefault(envKeyOutputDirectory, "./output"),
		TaskDefinitionFile:    getEnvOrDefault(envKeyTDFile, "taskdefinition.json"),
		ServiceDefinitionFile: getEnvOrDefault(envKeySDFile, "servicedefinition.json"),
		TfvarsFile:            getEnvOrDefault(envKeyTfvarsFile, "terraform.tfvars"),
		InputFile:             os.Getenv(envKeyInputFile),
		ExportSchedule:        os.Getenv(envKeyExportSchedule),
		ExportTZ:              getEnvOrDefault(envKeyExportTZ, "UTC"),
		RoleARNAnnotation:     getEnvOrDefault(envKeyRoleARNAnnotation, defaults.Identity.RoleARNAnnotation),
	}

	if !logging.Valid(cfg.LogFormat, cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log format %q or level %q", ErrInvalid, cfg.LogFormat, cfg.LogLevel)
	}

	var err error

	cfg.PingerInterval, err = parseDuration(envKeyPingerInterval, "10s", envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.HealthCheckGracePeriod, err = parseDuration(
		envKeyHealthCheckGracePeriod,
		defaults.Health.GracePeriod.String(),
		envMinHealthCheckGracePeriod,
	)
	if err != nil {
		return nil, err
	}

	cfg.ObservedUsage, err = parseBool(envKeyObservedUsage, false)
	if err != nil {
		return nil, err
	}

	maxBytes := getEnvOrDefault(envKeyMaxRequestBytes, "4194304")

	cfg.MaxRequestBytes, err = strconv.ParseInt(maxBytes, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalid, envKeyMaxRequestBytes, err)
	}

	if cfg.MaxRequestBytes < envMinMaxRequestBytes {
		return nil, fmt.Errorf("%w: %s must be at least %d", ErrInvalid, envKeyMaxRequestBytes, envMinMaxRequestBytes)
	}

	if _, err := time.LoadLocation(cfg.ExportTZ); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, envKeyExportTZ, err)
	}

	return cfg, nil
}

// Settings returns the engine defaults with the configured overrides.
func (c *Config) Settings() settings.Settings {
	s := settings.Default()
	s.Health.GracePeriod = c.HealthCheckGracePeriod

	if c.RoleARNAnnotation != "" {
		s.Identity.RoleARNAnnotation = c.RoleARNAnnotation
	}

	return s
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(value string) []string {
	var out []string

	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func parseDuration(key, defaultValue string, minValue time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%w: parse %s: %w", ErrInvalid, key, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("%w: %s must be at least %s", ErrInvalid, key, minValue)
	}

	return d, nil
}

func parseBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: parse %s: %w", ErrInvalid, key, err)
	}

	return b, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return os.Getenv(fallbackKey)
}
