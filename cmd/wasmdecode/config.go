package main

import (
	"fmt"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-decode/errors"
)

// Config holds the CLI options. Environment variables are read first and
// flags given on the command line take precedence.
type Config struct {
	Format       string `envconfig:"WASMDECODE_FORMAT"`
	LogLevel     string `envconfig:"WASMDECODE_LOG_LEVEL"`
	StrictBodies bool   `envconfig:"WASMDECODE_STRICT_BODIES"`
	Validate     bool   `envconfig:"WASMDECODE_VALIDATE"`
	Verify       bool   `envconfig:"WASMDECODE_VERIFY"`
}

const (
	formatText = "text"
	formatYAML = "yaml"
)

func defaultConfig() Config {
	return Config{Format: formatText, LogLevel: "warn"}
}

func rootFlagSet(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&cfg.StrictBodies, "strict-bodies", cfg.StrictBodies, "reject function bodies with trailing bytes")
	return flags
}

func decodeFlagSet(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: text or yaml")
	flags.BoolVar(&cfg.Validate, "validate", cfg.Validate, "check indices and counts after decoding")
	flags.BoolVar(&cfg.Verify, "verify", cfg.Verify, "compile the module with wazero and compare exports")
	return flags
}

// consolidateConfig layers defaults, environment and changed flags.
func consolidateConfig(flags *pflag.FlagSet, fromFlags Config, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := defaultConfig()
	if err := envconfig.Process("", &cfg, lookupEnv); err != nil {
		return cfg, errors.Load("environment", err)
	}

	if flags.Changed("format") {
		cfg.Format = fromFlags.Format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fromFlags.LogLevel
	}
	if flags.Changed("strict-bodies") {
		cfg.StrictBodies = fromFlags.StrictBodies
	}
	if flags.Changed("validate") {
		cfg.Validate = fromFlags.Validate
	}
	if flags.Changed("verify") {
		cfg.Verify = fromFlags.Verify
	}

	return cfg, cfg.check()
}

func (c Config) check() error {
	switch c.Format {
	case formatText, formatYAML:
	default:
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown format %q", c.Format))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	return nil
}
