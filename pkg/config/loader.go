package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".codecbench"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for codecbench settings.
const envPrefix = "CODECBENCH"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// flagKeys binds command-line flags to config keys with the same polarity.
var flagKeys = map[string]string{
	"codecs":        "bench.codecs",
	"reference":     "bench.reference",
	"ext":           "bench.extension",
	"only-totals":   "output.only_totals",
	"no-color":      "output.no_color",
	"format":        "output.format",
	"metrics-file":  "output.metrics_file",
	"log-level":     "logging.level",
	"log-json":      "logging.json",
	"otlp-endpoint": "telemetry.otlp_endpoint",
	"otlp-insecure": "telemetry.otlp_insecure",
}

// negatedFlagKeys maps "--no-*" switches onto the positive config keys they clear.
var negatedFlagKeys = map[string]string{
	"no-warmup":  "bench.warmup",
	"no-verify":  "bench.verify",
	"no-compare": "bench.compare",
	"no-decode":  "bench.decode",
	"no-encode":  "bench.encode",
	"no-recurse": "bench.recurse",
}

// Load reads configuration with increasing precedence: defaults, the YAML
// file, CODECBENCH_* environment variables, then flags the user set.
// If configPath is empty, .codecbench.yaml is searched in the working
// directory and the user config directory; a missing file is not an error.
// flags may be nil. The result is not validated; call Validate.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		dir, err := os.UserConfigDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(dir, "codecbench"))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	if flags != nil {
		bindErr := bindFlags(viperCfg, flags)
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	return &cfg, nil
}

func bindFlags(viperCfg *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := viperCfg.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	for name, key := range negatedFlagKeys {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}

		off, err := flags.GetBool(name)
		if err != nil {
			return fmt.Errorf("read flag --%s: %w", name, err)
		}

		viperCfg.Set(key, !off)
	}

	return nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("bench.runs", DefaultRuns)
	viperCfg.SetDefault("bench.warmup", DefaultWarmup)
	viperCfg.SetDefault("bench.verify", DefaultVerify)
	viperCfg.SetDefault("bench.compare", DefaultCompare)
	viperCfg.SetDefault("bench.decode", DefaultDecode)
	viperCfg.SetDefault("bench.encode", DefaultEncode)
	viperCfg.SetDefault("bench.recurse", DefaultRecurse)
	viperCfg.SetDefault("bench.extension", DefaultExtension)
	viperCfg.SetDefault("bench.reference", DefaultReference)
	viperCfg.SetDefault("bench.codecs", []string{})

	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.only_totals", DefaultOnlyTotals)
	viperCfg.SetDefault("output.no_color", DefaultNoColor)
	viperCfg.SetDefault("output.metrics_file", DefaultMetricsFile)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.otlp_headers", DefaultOTLPHeaders)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
}
