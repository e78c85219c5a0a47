package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/uptimekeeper/internal/flagx"
	"github.com/dmitrijs2005/uptimekeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file, shared by JSON and
// YAML. Only the keys present in the file override the current Config;
// pointer fields distinguish "absent" from a zero value.
type FileConfig struct {
	Environment       string          `json:"environment" yaml:"environment"`
	HTTPAddr          string          `json:"http_addr" yaml:"http_addr"`
	HTTPSAddr         string          `json:"https_addr" yaml:"https_addr"`
	TLSCertFile       string          `json:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile        string          `json:"tls_key_file" yaml:"tls_key_file"`
	GRPCHealthAddr    string          `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	HashingSecret     string          `json:"hashing_secret" yaml:"hashing_secret"`
	StorageDriver     string          `json:"storage_driver" yaml:"storage_driver"`
	DataDir           string          `json:"data_dir" yaml:"data_dir"`
	DatabaseDSN       string          `json:"database_dsn" yaml:"database_dsn"`
	S3Bucket          string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region          string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint    string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3RootUser        string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword    string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Prefix          string          `json:"s3_prefix" yaml:"s3_prefix"`
	MaxChecks         int             `json:"max_checks" yaml:"max_checks"`
	MaxBodyBytes      int64           `json:"max_body_bytes" yaml:"max_body_bytes"`
	TokenReapInterval *timex.Duration `json:"token_reap_interval" yaml:"token_reap_interval"`
	LogLevel          string          `json:"log_level" yaml:"log_level"`
	LogFormat         string          `json:"log_format" yaml:"log_format"`
	WatchConfig       *bool           `json:"watch_config" yaml:"watch_config"`
}

// LoadFile overlays the settings in path onto c. The format is chosen by
// extension: .yaml and .yml are YAML, anything else is JSON.
func LoadFile(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, fc)
	default:
		err = json.Unmarshal(b, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(c)
	c.ConfigFile = path
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	// The preset goes first so explicit keys in the same file win over it.
	if fc.Environment != "" {
		applyEnvironment(c, fc.Environment)
	}

	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.HTTPSAddr, fc.HTTPSAddr)
	setString(&c.TLSCertFile, fc.TLSCertFile)
	setString(&c.TLSKeyFile, fc.TLSKeyFile)
	setString(&c.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&c.HashingSecret, fc.HashingSecret)
	setString(&c.StorageDriver, fc.StorageDriver)
	setString(&c.DataDir, fc.DataDir)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Prefix, fc.S3Prefix)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)

	if fc.MaxChecks != 0 {
		c.MaxChecks = fc.MaxChecks
	}
	if fc.MaxBodyBytes != 0 {
		c.MaxBodyBytes = fc.MaxBodyBytes
	}
	if fc.TokenReapInterval != nil {
		c.TokenReapInterval = fc.TokenReapInterval.Duration
	}
	if fc.WatchConfig != nil {
		c.WatchConfig = *fc.WatchConfig
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseFile loads the file named by -c, -config or $CONFIG into config. It
// panics if the file cannot be read or parsed, since the server cannot
// start with a configuration it was told to use but cannot understand.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()

	// nothing to load
	if path == "" {
		return
	}

	if err := LoadFile(path, config); err != nil {
		panic(err)
	}
}
