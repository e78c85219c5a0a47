// Package config handles configuration for the server, including defaults,
// environment presets, a JSON or YAML file overlay, command-line flags and
// live reload of the file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
)

// Storage drivers accepted by StorageDriver.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverS3       = "s3"
)

// Config holds runtime settings for the uptimekeeper server.
//
// Fields:
//   - EnvName: name of the environment preset in effect (staging, production).
//   - HTTPAddr / HTTPSAddr: listener addresses. HTTPS only starts when both
//     TLSCertFile and TLSKeyFile are set.
//   - GRPCHealthAddr: optional gRPC health endpoint; empty disables it.
//   - HashingSecret: process secret mixed into password hashes. Changing it
//     invalidates every stored password.
//   - StorageDriver / DataDir / DatabaseDSN: where documents live.
//   - S3*: object storage settings for the s3 driver.
//   - MaxChecks: per-user limit on checks.
//   - MaxBodyBytes: request bodies above this size are rejected.
//   - TokenReapInterval: how often expired tokens are purged; 0 disables.
//   - LogLevel / LogFormat: slog level and handler.
//   - WatchConfig: reload the config file on change (log level only).
type Config struct {
	EnvName           string
	HTTPAddr          string
	HTTPSAddr         string
	TLSCertFile       string
	TLSKeyFile        string
	GRPCHealthAddr    string
	HashingSecret     string
	StorageDriver     string
	DataDir           string
	DatabaseDSN       string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3RootUser        string
	S3RootPassword    string
	S3Prefix          string
	MaxChecks         int
	MaxBodyBytes      int64
	TokenReapInterval time.Duration
	LogLevel          string
	LogFormat         string
	WatchConfig       bool

	// ConfigFile is the file the config was loaded from, if any.
	ConfigFile string
}

// LoadDefaults populates Config with development defaults, which are the
// staging preset plus local file storage.
// NOTE: the hashing secret must be overridden outside development.
func (c *Config) LoadDefaults() {
	applyEnvironment(c, EnvStaging)
	c.StorageDriver = DriverFile
	c.DataDir = ".data"
	c.S3Bucket = "uptimekeeper"
	c.S3Region = "us-east-1"
	c.MaxChecks = 5
	c.MaxBodyBytes = 1 << 20
	c.TokenReapInterval = 10 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// TLSEnabled reports whether the HTTPS listener should start.
func (c *Config) TLSEnabled() bool {
	return c.HTTPSAddr != "" && c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("tls_cert_file and tls_key_file must be set together"))
	}
	if c.HashingSecret == "" {
		errs = append(errs, errors.New("hashing_secret must not be empty"))
	}

	switch c.StorageDriver {
	case DriverFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("data_dir must not be empty for the file driver"))
		}
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("database_dsn is required for the %s driver", c.StorageDriver))
		}
	case DriverS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3_bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_driver %q", c.StorageDriver))
	}

	if c.MaxChecks < 1 {
		errs = append(errs, fmt.Errorf("max_checks must be positive, got %d", c.MaxChecks))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.TokenReapInterval < 0 {
		errs = append(errs, fmt.Errorf("token_reap_interval must not be negative, got %s", c.TokenReapInterval))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then the environment
// preset from APP_ENV, then values from an optional config file and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnvironment(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
