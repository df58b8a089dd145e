// Package config loads dhwani settings from defaults, an optional config
// file, DHWANI_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/dhwani/internal/endpoint"
	"github.com/valpere/dhwani/internal/lang"
)

const EnvPrefix = "DHWANI"

type EndpointConfig struct {
	LocalURL  string `mapstructure:"local_url"`
	RemoteURL string `mapstructure:"remote_url"`
}

type TranslateConfig struct {
	SourceLanguage string        `mapstructure:"source_language"`
	TargetLanguage string        `mapstructure:"target_language"`
	UseGPU         bool          `mapstructure:"use_gpu"`
	UseLocalhost   bool          `mapstructure:"use_localhost"`
	ChunkWords     int           `mapstructure:"chunk_words"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Stderr bool   `mapstructure:"stderr"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Endpoint  EndpointConfig  `mapstructure:"endpoint"`
	Translate TranslateConfig `mapstructure:"translate"`
	Log       LogConfig       `mapstructure:"log"`
	History   HistoryConfig   `mapstructure:"history"`
	Server    ServerConfig    `mapstructure:"server"`
}

// SetDefaults registers every key so environment overrides resolve even when
// no config file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoint.local_url", endpoint.DefaultLocalURL)
	v.SetDefault("endpoint.remote_url", endpoint.DefaultRemoteURL)

	v.SetDefault("translate.source_language", lang.DefaultSource)
	v.SetDefault("translate.target_language", lang.DefaultTarget)
	v.SetDefault("translate.use_gpu", false)
	v.SetDefault("translate.use_localhost", false)
	v.SetDefault("translate.chunk_words", 15)
	v.SetDefault("translate.timeout", 30*time.Second)

	v.SetDefault("log.file", "execution.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stderr", false)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.db_path", "./data/dhwani.db")

	v.SetDefault("server.addr", ":7861")
}

// New returns a viper instance with defaults and environment binding. When
// configFile is empty, dhwani.yaml is looked up in the working directory.
func New(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dhwani")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the config file (a missing default file is not an error),
// decodes and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at request time.
func (c *Config) Validate() error {
	if _, err := lang.Lookup(c.Translate.SourceLanguage); err != nil {
		return fmt.Errorf("invalid translate.source_language: %w", err)
	}
	if _, err := lang.Lookup(c.Translate.TargetLanguage); err != nil {
		return fmt.Errorf("invalid translate.target_language: %w", err)
	}
	if c.Translate.ChunkWords <= 0 {
		return fmt.Errorf("invalid translate.chunk_words: must be positive, got %d", c.Translate.ChunkWords)
	}
	if c.Translate.Timeout <= 0 {
		return fmt.Errorf("invalid translate.timeout: must be positive, got %s", c.Translate.Timeout)
	}
	return nil
}
