// Package config loads mapcheck settings from mapcheck.yaml, MAPCHECK_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"mapcheck/internal/check"
	"mapcheck/internal/diagnostic"
	"mapcheck/internal/discovery"
	"mapcheck/internal/report"
	"mapcheck/primitive"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// DefaultWorkers bounds the number of mapping calls checked in parallel.
const DefaultWorkers = 4

// Config represents the mapcheck configuration.
type Config struct {
	MaxDepth    int               `mapstructure:"max_depth"`
	Workers     int               `mapstructure:"workers"`
	Conversions []string          `mapstructure:"conversions"`
	RiskyCalls  RiskyCallsConfig  `mapstructure:"risky_calls"`
	Output      string            `mapstructure:"output"`
	LogLevel    string            `mapstructure:"log_level"`
	Severity    map[string]string `mapstructure:"severity"`
}

// RiskyCallsConfig lists the call names treated as dangerous in overrides.
type RiskyCallsConfig struct {
	Names    []string `mapstructure:"names"`
	Prefixes []string `mapstructure:"prefixes"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		MaxDepth:    check.DefaultMaxDepth,
		Workers:     DefaultWorkers,
		Conversions: primitive.DefaultCategories.Names(),
		RiskyCalls: RiskyCallsConfig{
			Names:    append([]string(nil), check.DefaultRiskyNames...),
			Prefixes: append([]string(nil), check.DefaultRiskyPrefixes...),
		},
		Output:   OutputText,
		LogLevel: "info",
		Severity: map[string]string{},
	}
}

// Load loads the configuration from path, or from mapcheck.yaml
// in the working directory when path is empty. A missing default file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("conversions", def.Conversions)
	v.SetDefault("risky_calls.names", def.RiskyCalls.Names)
	v.SetDefault("risky_calls.prefixes", def.RiskyCalls.Prefixes)
	v.SetDefault("output", def.Output)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("severity", def.Severity)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mapcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MAPCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if _, err := primitive.ParseCategories(c.Conversions...); err != nil {
		return fmt.Errorf("conversions: %w", err)
	}

	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputText, OutputJSON, c.Output)
	}

	if _, err := c.SeverityOverrides(); err != nil {
		return err
	}

	return nil
}

// CheckOptions converts the configuration into checker options.
func (c *Config) CheckOptions() (check.Options, error) {
	conversions, err := primitive.ParseCategories(c.Conversions...)
	if err != nil {
		return check.Options{}, fmt.Errorf("conversions: %w", err)
	}

	return check.Options{
		MaxDepth:      c.MaxDepth,
		Conversions:   conversions,
		RiskyNames:    c.RiskyCalls.Names,
		RiskyPrefixes: c.RiskyCalls.Prefixes,
	}, nil
}

// EngineOptions converts the configuration into discovery engine options.
func (c *Config) EngineOptions() (discovery.Options, error) {
	opts, err := c.CheckOptions()
	if err != nil {
		return discovery.Options{}, err
	}

	return discovery.Options{Workers: c.Workers, Check: opts}, nil
}

// SeverityOverrides parses the per-code severity table. Codes are matched
// case-insensitively against the rule table.
func (c *Config) SeverityOverrides() (map[string]diagnostic.DiagnosticSeverity, error) {
	if len(c.Severity) == 0 {
		return nil, nil
	}

	res := make(map[string]diagnostic.DiagnosticSeverity, len(c.Severity))

	for code, level := range c.Severity {
		rule, ok := diagnostic.LookupRule(strings.ToUpper(code))
		if !ok {
			return nil, fmt.Errorf("severity: unknown rule code %q", code)
		}

		sev, err := diagnostic.ParseSeverity(level)
		if err != nil {
			return nil, fmt.Errorf("severity %s: %w", code, err)
		}

		res[rule.Code] = sev
	}

	return res, nil
}

// ReportOptions converts the configuration into report options.
func (c *Config) ReportOptions() (report.Options, error) {
	sev, err := c.SeverityOverrides()
	if err != nil {
		return report.Options{}, err
	}

	return report.Options{Severity: sev}, nil
}
