// Package config loads command line settings from defaults, an optional
// YAML config file, JSON2VIDEO_* environment variables and bound flags.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/orchestrator"
	"github.com/ivlev/json2video/internal/validator"
)

const EnvPrefix = "JSON2VIDEO"

type Config struct {
	ParamsDir  string           `mapstructure:"params_dir" validate:"required"`
	Workers    int              `mapstructure:"workers" validate:"min=1"`
	Pretty     bool             `mapstructure:"pretty"`
	Validation ValidationConfig `mapstructure:"validation"`
	Log        LogConfig        `mapstructure:"log"`
	Probe      ProbeConfig      `mapstructure:"probe"`
}

type ValidationConfig struct {
	Level            string `mapstructure:"level" validate:"oneof=structural semantic complete"`
	Strict           bool   `mapstructure:"strict"`
	IncludeWarnings  bool   `mapstructure:"include_warnings"`
	ValidateElements bool   `mapstructure:"validate_elements"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `mapstructure:"json"`
}

type ProbeConfig struct {
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxBytes int64         `mapstructure:"max_bytes" validate:"min=64"`
	Workers  int           `mapstructure:"workers" validate:"min=1"`
}

func Default() Config {
	return Config{
		ParamsDir: "input/params",
		Workers:   runtime.NumCPU(),
		Pretty:    true,
		Validation: ValidationConfig{
			Level:            validator.LevelComplete.String(),
			Strict:           true,
			IncludeWarnings:  true,
			ValidateElements: true,
		},
		Log: LogConfig{
			Level: string(logger.InfoLevel),
		},
		Probe: ProbeConfig{
			Timeout:  10 * time.Second,
			MaxBytes: 64 * 1024,
			Workers:  4,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("params_dir", d.ParamsDir)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("pretty", d.Pretty)
	v.SetDefault("validation.level", d.Validation.Level)
	v.SetDefault("validation.strict", d.Validation.Strict)
	v.SetDefault("validation.include_warnings", d.Validation.IncludeWarnings)
	v.SetDefault("validation.validate_elements", d.Validation.ValidateElements)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("probe.timeout", d.Probe.Timeout)
	v.SetDefault("probe.max_bytes", d.Probe.MaxBytes)
	v.SetDefault("probe.workers", d.Probe.Workers)
}

// Load resolves the configuration. path may be empty. bind, when set, can
// attach command line flags to keys before values are read.
func Load(path string, bind func(*viper.Viper) error) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if bind != nil {
		if err := bind(v); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Validation.Level = strings.ToLower(strings.TrimSpace(cfg.Validation.Level))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := playground.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Options converts the validation settings for the orchestrator.
func (c ValidationConfig) Options() (orchestrator.Options, error) {
	level, err := validator.ParseLevel(c.Level)
	if err != nil {
		return orchestrator.Options{}, err
	}
	return orchestrator.Options{
		Level:            level,
		StrictMode:       orchestrator.Bool(c.Strict),
		IncludeWarnings:  orchestrator.Bool(c.IncludeWarnings),
		ValidateElements: orchestrator.Bool(c.ValidateElements),
	}, nil
}

// Logger builds the logger described by the log settings.
func (c LogConfig) Logger() logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(c.Level)
	cfg.JSON = c.JSON
	return logger.NewLogger(cfg)
}
