// Package config loads chemstate settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"chemstate/internal/blob"
	"chemstate/pkg/domain"
)

// Combine policy names accepted by CHEMSTATE_COMBINE_POLICY.
const (
	PolicyDefault      = "default"
	PolicyMassWeighted = "mass_weighted"
)

// Config is decoded from CHEMSTATE_* variables.
type Config struct {
	StorageDriver string `env:"CHEMSTATE_STORAGE_DRIVER,default=sqlite"`
	SQLitePath    string `env:"CHEMSTATE_SQLITE_PATH,default=chemstate.db"`
	PostgresDSN   string `env:"CHEMSTATE_POSTGRES_DSN"`

	BlobDriver    string `env:"CHEMSTATE_BLOB_DRIVER,default=fs"`
	BlobFSRoot    string `env:"CHEMSTATE_BLOB_FS_ROOT,default=./chemstate-archive"`
	S3Bucket      string `env:"CHEMSTATE_BLOB_S3_BUCKET"`
	S3Region      string `env:"CHEMSTATE_BLOB_S3_REGION,default=us-east-1"`
	S3Endpoint    string `env:"CHEMSTATE_BLOB_S3_ENDPOINT"`
	S3PathStyle   bool   `env:"CHEMSTATE_BLOB_S3_PATH_STYLE,default=false"`
	CombinePolicy string `env:"CHEMSTATE_COMBINE_POLICY,default=default"`

	LogLevel         string `env:"CHEMSTATE_LOG_LEVEL,default=info"`
	MetricsNamespace string `env:"CHEMSTATE_METRICS_NAMESPACE,default=chemstate"`
	ErrorLog         string `env:"CHEMSTATE_ERROR_LOG"`
}

// Load reads envFile (or ./.env when envFile is empty and the file exists) into
// the process environment and decodes Config from it. Variables already set in
// the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv decodes Config from the current environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case "memory", "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("CHEMSTATE_POSTGRES_DSN required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	switch blob.Driver(c.BlobDriver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("CHEMSTATE_BLOB_S3_BUCKET required for s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.BlobDriver))
	}
	switch strings.ToLower(c.CombinePolicy) {
	case PolicyDefault, PolicyMassWeighted:
	default:
		errs = append(errs, fmt.Errorf("unknown combine policy %q", c.CombinePolicy))
	}
	return errors.Join(errs...)
}

// BlobOptions returns the archive backend settings.
func (c Config) BlobOptions() blob.Options {
	return blob.Options{
		Driver: blob.Driver(c.BlobDriver),
		FSRoot: c.BlobFSRoot,
		S3: blob.S3Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
		},
	}
}

// Policy returns the combine policy named by CombinePolicy.
func (c Config) Policy() domain.CombinePolicy {
	if strings.EqualFold(c.CombinePolicy, PolicyMassWeighted) {
		return domain.MassWeightedPolicy()
	}
	return domain.DefaultCombinePolicy()
}
