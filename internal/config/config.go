// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package config handles configuration loading for the isds command.
//
// Configuration is loaded either from a YAML file with support for
// environment variable expansion (${VAR} or $VAR syntax), or from ISDS_*
// environment variables optionally read from a .env file. Credentials can
// thus be injected at runtime in both cases.
//
// # Example Configuration
//
//	username: ${ISDS_USERNAME}
//	password: ${ISDS_PASSWORD}
//	production: false
//	wsdlDir: ./wsdl
//	timeout: 30s
//	logging:
//	  level: debug
//	  format: json
//
// See [Load] and [LoadEnv].
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-isds/pkg/isds"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "ISDS"

// Config is the root configuration structure
type Config struct {
	Username   string        `yaml:"username" envconfig:"USERNAME"`
	Password   string        `yaml:"password" envconfig:"PASSWORD"`
	Production bool          `yaml:"production" envconfig:"PRODUCTION"`
	BaseURL    string        `yaml:"baseURL" envconfig:"BASE_URL"`
	WSDLDir    string        `yaml:"wsdlDir" envconfig:"WSDL_DIR"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	Debug      bool          `yaml:"debug" envconfig:"DEBUG"`
	Logging    LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // text or json
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv reads configuration from ISDS_* environment variables. The given
// .env files are loaded first when they exist; variables already set in
// the environment take precedence over them.
func LoadEnv(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
		if c.Debug {
			c.Logging.Level = "debug"
		}
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got '%s'", c.Logging.Format)
	}

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// Logger builds the configured logger, writing to stderr.
func (c *Config) Logger() *slog.Logger {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ClientConfig returns the client configuration.
func (c *Config) ClientConfig(logger *slog.Logger) *isds.Config {
	return &isds.Config{
		Username:   c.Username,
		Password:   c.Password,
		Production: c.Production,
		BaseURL:    c.BaseURL,
		WSDLDir:    c.WSDLDir,
		Timeout:    c.Timeout,
		Logger:     logger,
		Debug:      c.Debug,
	}
}
