// Package config loads talond's runtime configuration from a YAML file,
// environment variables, and built-in defaults, following the layering
// codefang's pkg/config package uses for its own CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".talond"
	configType      = "yaml"
	envPrefix       = "TALON"
	envKeySeparator = "_"

	// DefaultShardCount is the number of shards a talond process starts
	// with when unconfigured.
	DefaultShardCount = 16
	// DefaultResolution is the bucket width, in seconds, for timelines
	// created without an explicit resolution.
	DefaultResolution = 10
	// DefaultDataDir is where timelines are rooted when unconfigured.
	DefaultDataDir = "./data"
	// DefaultTCPAddr is the line-protocol listener address.
	DefaultTCPAddr = ":7000"
	// DefaultHTTPAddr is the query/metrics HTTP listener address.
	DefaultHTTPAddr = ":7001"
)

// Config is talond's fully resolved runtime configuration.
type Config struct {
	DataDir    string `mapstructure:"data_dir"`
	ShardCount int    `mapstructure:"shard_count"`
	Resolution uint64 `mapstructure:"resolution"`
	TCPAddr    string `mapstructure:"tcp_addr"`
	HTTPAddr   string `mapstructure:"http_addr"`
	LogLevel   string `mapstructure:"log_level"`
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	if c.ShardCount <= 0 {
		return fmt.Errorf("config: shard_count must be > 0, got %d", c.ShardCount)
	}
	if c.Resolution == 0 {
		return fmt.Errorf("config: resolution must be > 0")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}

	return nil
}

// Load reads configuration from configPath (if non-empty), the CWD/$HOME
// otherwise, layered with TALON_-prefixed environment variables and the
// package defaults. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("shard_count", DefaultShardCount)
	v.SetDefault("resolution", DefaultResolution)
	v.SetDefault("tcp_addr", DefaultTCPAddr)
	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("log_level", "info")
}
