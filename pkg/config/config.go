// Package config loads and validates codecbench run configuration from
// defaults, an optional YAML file, CODECBENCH_* environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/observability"
	"github.com/Sumatoshi-tech/codecbench/pkg/report"
)

// Sentinel validation errors.
var (
	ErrInvalidRuns        = errors.New("runs must be a positive integer")
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrInvalidFormat      = errors.New("invalid report format")
	ErrInvalidExtension   = errors.New("image extension must not be empty")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be between 0 and 1")
)

// Config holds all configuration for a benchmark run.
type Config struct {
	Bench     BenchConfig     `mapstructure:"bench"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// BenchConfig holds the trial policy.
type BenchConfig struct {
	Extension string   `mapstructure:"extension"`
	Reference string   `mapstructure:"reference"`
	Codecs    []string `mapstructure:"codecs"`
	Runs      int      `mapstructure:"runs"`
	Warmup    bool     `mapstructure:"warmup"`
	Verify    bool     `mapstructure:"verify"`
	Compare   bool     `mapstructure:"compare"`
	Decode    bool     `mapstructure:"decode"`
	Encode    bool     `mapstructure:"encode"`
	Recurse   bool     `mapstructure:"recurse"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	MetricsFile string `mapstructure:"metrics_file"`
	OnlyTotals  bool   `mapstructure:"only_totals"`
	NoColor     bool   `mapstructure:"no_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// ParseRuns parses the positional run count.
func ParseRuns(s string) (int, error) {
	runs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || runs < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRuns, s)
	}

	return runs, nil
}

// Validate checks the configuration against the registered codec names.
func (c *Config) Validate(registered []string) error {
	if c.Bench.Runs < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRuns, c.Bench.Runs)
	}

	if !slices.Contains(registered, c.Bench.Reference) {
		return fmt.Errorf("%w: reference %q (available: %s)",
			ErrUnknownCodec, c.Bench.Reference, strings.Join(registered, ", "))
	}

	for _, name := range c.Bench.Codecs {
		if !slices.Contains(registered, name) {
			return fmt.Errorf("%w: %q (available: %s)", ErrUnknownCodec, name, strings.Join(registered, ", "))
		}
	}

	if c.Bench.Extension == "" {
		return ErrInvalidExtension
	}

	_, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	_, err = c.LogLevel()
	if err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// Options builds the immutable run policy. An empty codec list selects every
// registered codec.
func (c *Config) Options(registered []string) bench.Options {
	codecs := c.Bench.Codecs
	if len(codecs) == 0 {
		codecs = registered
	}

	return bench.Options{
		Runs:       c.Bench.Runs,
		Warmup:     c.Bench.Warmup,
		Verify:     c.Bench.Verify,
		Compare:    c.Bench.Compare,
		Decode:     c.Bench.Decode,
		Encode:     c.Bench.Encode,
		Recurse:    c.Bench.Recurse,
		OnlyTotals: c.Output.OnlyTotals,
		Extension:  c.Bench.Extension,
		Reference:  c.Bench.Reference,
		Codecs:     slices.Clone(codecs),
	}
}

// Format returns the parsed report format.
func (c *Config) Format() report.Format {
	format, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		return report.FormatText
	}

	return format
}

// LogLevel parses the configured slog level name.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}

// Observability maps the logging and telemetry sections onto an
// observability.Config for the given binary version.
func (c *Config) Observability(version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = version
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.LogJSON = c.Logging.JSON

	if level, err := c.LogLevel(); err == nil {
		obs.LogLevel = level
	}

	return obs
}
