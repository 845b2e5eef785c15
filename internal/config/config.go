// Package config loads the apigen run configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// DefaultMaxFileSize is the largest source file parsed by default.
const DefaultMaxFileSize = 1_000_000 // 1 MB

// Config is shared read-only by every documentation element of a run.
type Config struct {
	IncludeBuiltins   bool     `mapstructure:"include_builtins"`
	IncludeDeprecated bool     `mapstructure:"include_deprecated"`
	IncludeInternal   bool     `mapstructure:"include_internal"`
	Main              string   `mapstructure:"main"`
	MaxFileSize       int      `mapstructure:"max_file_size"`
	Exclude           []string `mapstructure:"exclude"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		IncludeDeprecated: true,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("include_builtins", d.IncludeBuiltins)
	v.SetDefault("include_deprecated", d.IncludeDeprecated)
	v.SetDefault("include_internal", d.IncludeInternal)
	v.SetDefault("main", d.Main)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("exclude", []string{})
}

// Load reads configuration into a Config. If path is empty, apigen.yaml is
// looked up in dir and a missing file is not an error.
func Load(v *viper.Viper, dir, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("apigen")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("apigen")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if strings.ContainsAny(c.Main, " \t\r\n") {
		result = multierror.Append(result, fmt.Errorf("main: prefix %q contains whitespace", c.Main))
	}
	if c.MaxFileSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_file_size: must be positive, got %d", c.MaxFileSize))
	}
	for i, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			result = multierror.Append(result, fmt.Errorf("exclude[%d]: empty pattern", i))
		}
	}

	return result.ErrorOrNil()
}

// WriteDefault writes the default configuration to path. It fails if the
// file already exists unless force is set.
func WriteDefault(path string, force bool) error {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	var err error
	if force {
		err = v.WriteConfigAs(path)
	} else {
		err = v.SafeWriteConfigAs(path)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
