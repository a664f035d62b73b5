// Package config handles configuration for the server: defaults, an optional
// JSON file, environment variables and command-line flags, applied in that
// order so that later sources win.
package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Storage drivers accepted in StorageDriver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MinSecretKeyLength is the shortest accepted HMAC signing key, in bytes.
const MinSecretKeyLength = 32

// Config holds runtime settings for the server.
//
// SecretKey and AdminPasswordHash have no defaults: they must come from the
// JSON file, the environment or flags, and Validate rejects a config where
// either is missing.
type Config struct {
	EndpointAddrHTTP            string        `env:"COLLEGE_HTTP_ADDR"`
	EndpointAddrGRPC            string        `env:"COLLEGE_GRPC_ADDR"`
	StorageDriver               string        `env:"COLLEGE_STORAGE_DRIVER"`
	DatabaseDSN                 string        `env:"COLLEGE_DATABASE_DSN"`
	SecretKey                   string        `env:"COLLEGE_SECRET_KEY"`
	AdminUsername               string        `env:"COLLEGE_ADMIN_USERNAME"`
	AdminPasswordHash           string        `env:"COLLEGE_ADMIN_PASSWORD_HASH"`
	AccessTokenValidityDuration time.Duration `env:"COLLEGE_ACCESS_TOKEN_TTL"`
	ShutdownTimeout             time.Duration `env:"COLLEGE_SHUTDOWN_TIMEOUT"`
	LogLevel                    string        `env:"COLLEGE_LOG_LEVEL"`
}

// LoadDefaults populates the non-secret settings.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.StorageDriver = DriverMemory
	c.DatabaseDSN = ""
	c.AdminUsername = "admin"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then COLLEGE_* environment variables, then flags. args are the
// command-line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// Validate reports every setting that would make the server unsafe or
// unable to start.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	} else if len(c.SecretKey) < MinSecretKeyLength {
		errs = append(errs, fmt.Errorf("secret key must be at least %d bytes", MinSecretKeyLength))
	}
	if c.AdminUsername == "" {
		errs = append(errs, errors.New("admin username is required"))
	}
	if c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("admin password hash is required"))
	} else if _, err := bcrypt.Cost([]byte(c.AdminPasswordHash)); err != nil {
		errs = append(errs, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("database dsn is required for %s storage", c.StorageDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}
