package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration
type Config struct {
	S3      S3Config      `yaml:"s3"`
	Presign PresignConfig `yaml:"presign"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// S3Config holds bucket endpoint and credential configuration
type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token,omitempty"`
	Region       string `yaml:"region"`

	// UseSDK routes signer construction through an aws-sdk-go-v2 client
	// instead of building it from endpoint+bucket directly. Required when
	// credentials come from the default provider chain (env, shared
	// config, IMDS) rather than this file.
	UseSDK bool `yaml:"use_sdk"`

	// ForcePathStyle applies to the SDK client when use_sdk is set.
	// Required for most S3-compatible services behind custom endpoints.
	ForcePathStyle bool `yaml:"force_path_style"`
}

// PresignConfig holds signing defaults and signer refresh scheduling
type PresignConfig struct {
	// DefaultExpires is the URL validity used when a request doesn't
	// specify one, e.g. "15m". Defaults to 1h.
	DefaultExpires string `yaml:"default_expires"`

	// RefreshSchedule is a cron expression for rebuilding the signer from
	// the SDK client, so a long-running daemon tracks rotating temporary
	// credentials. Empty disables refresh. Only meaningful with use_sdk.
	RefreshSchedule string `yaml:"refresh_schedule,omitempty"`
}

// MetricsConfig holds the HTTP listen configuration
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultExpiresDuration returns the configured default expiry as a
// time.Duration, falling back to 1h on anything unparsable.
func (p *PresignConfig) DefaultExpiresDuration() time.Duration {
	d, err := time.ParseDuration(p.DefaultExpires)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// BucketEndpointURL joins the endpoint and bucket into the path-style
// bucket endpoint the signer is constructed from. An endpoint that already
// names the bucket (virtual-hosted or pre-joined) is used as-is by leaving
// bucket empty.
func (s *S3Config) BucketEndpointURL() string {
	endpoint := trimTrailingSlash(s.Endpoint)
	if s.Bucket == "" {
		return endpoint
	}
	return endpoint + "/" + s.Bucket
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
	if cfg.Presign.DefaultExpires == "" {
		cfg.Presign.DefaultExpires = "1h"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 8080
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.S3.Endpoint == "" {
		return nil, fmt.Errorf("s3.endpoint is required")
	}
	if !cfg.S3.UseSDK && (cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "") {
		return nil, fmt.Errorf("s3.access_key and s3.secret_key are required unless use_sdk is set")
	}

	return &cfg, nil
}
