// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the host add-in configuration.
type Config struct {
	// ListenAddr is the TCP address for the command endpoint.
	ListenAddr string `yaml:"listen_addr"`

	// TimeoutSeconds bounds how long a request waits for the main
	// loop before a timeout response is synthesized.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// QueueDepth bounds the dispatch backlog. Zero keeps the relay
	// default.
	QueueDepth int `yaml:"queue_depth"`

	// AllowCode enables the execute_code operation.
	AllowCode bool `yaml:"allow_code"`

	// Journal configures the command audit journal.
	Journal JournalConfig `yaml:"journal"`
}

// JournalConfig configures the command audit journal.
type JournalConfig struct {
	// Directory holds journal segments. Empty disables the journal.
	Directory string `yaml:"directory"`

	// RotateBytes is the active-segment size that triggers rotation.
	// Zero keeps the journal default.
	RotateBytes int64 `yaml:"rotate_bytes"`
}

// Default returns the configuration for a local deployment: loopback
// listener, 30 second timeout, journal under the user cache
// directory, code execution disabled.
func Default() *Config {
	cacheDir, _ := os.UserCacheDir()
	journalDir := ""
	if cacheDir != "" {
		journalDir = filepath.Join(cacheDir, "toolpost", "journal")
	}
	return &Config{
		ListenAddr:     "127.0.0.1:8642",
		TimeoutSeconds: 30,
		Journal: JournalConfig{
			Directory: journalDir,
		},
	}
}

// Load loads configuration from the TOOLPOST_CONFIG environment
// variable when set, otherwise returns defaults. Environment
// overrides apply either way.
func Load() (*Config, error) {
	if path := os.Getenv("TOOLPOST_CONFIG"); path != "" {
		return LoadFile(path)
	}
	cfg := Default()
	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile loads configuration from a specific file path, merging
// over defaults, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// applyEnvironment overrides individual fields from the environment.
func (c *Config) applyEnvironment() error {
	if value := os.Getenv("TOOLPOST_LISTEN_ADDR"); value != "" {
		c.ListenAddr = value
	}
	if value := os.Getenv("TOOLPOST_TIMEOUT_SECONDS"); value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TOOLPOST_TIMEOUT_SECONDS value %q", value)
		}
		c.TimeoutSeconds = seconds
	}
	if value := os.Getenv("TOOLPOST_JOURNAL_DIR"); value != "" {
		c.Journal.Directory = value
	}
	if value := os.Getenv("TOOLPOST_ALLOW_CODE"); value != "" {
		allow, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid TOOLPOST_ALLOW_CODE value %q", value)
		}
		c.AllowCode = allow
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("listen_addr is required"))
	}
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds))
	}
	if c.QueueDepth < 0 {
		errs = append(errs, fmt.Errorf("queue_depth must not be negative, got %d", c.QueueDepth))
	}
	if c.Journal.RotateBytes < 0 {
		errs = append(errs, fmt.Errorf("journal.rotate_bytes must not be negative, got %d", c.Journal.RotateBytes))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
