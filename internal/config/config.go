package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ckampfe/s3dl/internal/downloader"
	"github.com/ckampfe/s3dl/internal/output"
	"github.com/ckampfe/s3dl/internal/writer"
)

// Config defines configuration for the s3dl CLI.
type Config struct {
	Bucket         string `yaml:"bucket"`
	KeysPath       string `yaml:"keys_path"`
	OutPath        string `yaml:"out_path"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	MaxInflight    int    `yaml:"max_inflight_requests"`
	OnExistingFile string `yaml:"on_existing_file"`
	Ordered        bool   `yaml:"ordered"`
	Verbose        bool   `yaml:"verbose"`
	StdoutCapacity int    `yaml:"stdout_channel_capacity"`
	StderrCapacity int    `yaml:"stderr_channel_capacity"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		MaxInflight:    downloader.DefaultMaxInflight(),
		OnExistingFile: string(writer.PolicySkip),
		StdoutCapacity: output.DefaultCapacity,
		StderrCapacity: output.DefaultCapacity,
	}
}

// LoadFromFile loads configuration from a YAML file. Fields absent
// from the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the S3DL_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("S3DL_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("S3DL_KEYS_PATH"); v != "" {
		c.KeysPath = v
	}
	if v := os.Getenv("S3DL_OUT_PATH"); v != "" {
		c.OutPath = v
	}
	if v := os.Getenv("S3DL_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("S3DL_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("S3DL_MAX_INFLIGHT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse S3DL_MAX_INFLIGHT_REQUESTS: %w", err)
		}
		c.MaxInflight = n
	}
	if v := os.Getenv("S3DL_ON_EXISTING_FILE"); v != "" {
		c.OnExistingFile = v
	}
	if v := os.Getenv("S3DL_ORDERED"); v != "" {
		c.Ordered = v == "true" || v == "1"
	}
	if v := os.Getenv("S3DL_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
	if v := os.Getenv("S3DL_STDOUT_CHANNEL_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse S3DL_STDOUT_CHANNEL_CAPACITY: %w", err)
		}
		c.StdoutCapacity = n
	}
	if v := os.Getenv("S3DL_STDERR_CHANNEL_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse S3DL_STDERR_CHANNEL_CAPACITY: %w", err)
		}
		c.StderrCapacity = n
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("config: bucket is required")
	}
	if c.KeysPath == "" {
		return errors.New("config: keys_path is required")
	}
	if c.OutPath == "" {
		return errors.New("config: out_path is required")
	}
	if c.MaxInflight <= 0 {
		return errors.New("config: max_inflight_requests must be positive")
	}
	switch writer.Policy(c.OnExistingFile) {
	case writer.PolicySkip, writer.PolicyOverwrite, writer.PolicyError:
	default:
		return fmt.Errorf("config: invalid on_existing_file %q (want skip, overwrite or error)", c.OnExistingFile)
	}
	if c.StdoutCapacity <= 0 {
		return errors.New("config: stdout_channel_capacity must be positive")
	}
	if c.StderrCapacity <= 0 {
		return errors.New("config: stderr_channel_capacity must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.KeysPath != "" {
		c.KeysPath = override.KeysPath
	}
	if override.OutPath != "" {
		c.OutPath = override.OutPath
	}
	if override.Region != "" {
		c.Region = override.Region
	}
	if override.Endpoint != "" {
		c.Endpoint = override.Endpoint
	}
	if override.MaxInflight != 0 {
		c.MaxInflight = override.MaxInflight
	}
	if override.OnExistingFile != "" {
		c.OnExistingFile = override.OnExistingFile
	}
	if override.Ordered {
		c.Ordered = override.Ordered
	}
	if override.Verbose {
		c.Verbose = override.Verbose
	}
	if override.StdoutCapacity != 0 {
		c.StdoutCapacity = override.StdoutCapacity
	}
	if override.StderrCapacity != 0 {
		c.StderrCapacity = override.StderrCapacity
	}
	return c
}

// Policy returns the parsed on_existing_file policy. Call Validate
// first; an invalid value falls back to PolicySkip.
func (c *Config) Policy() writer.Policy {
	p, err := writer.ParsePolicy(c.OnExistingFile)
	if err != nil {
		return writer.PolicySkip
	}
	return p
}
