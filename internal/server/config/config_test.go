package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3mtKq3hY7nVXnH4v6VdL8Fa"

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.SecretKey = strings.Repeat("k", MinSecretKeyLength)
	c.AdminPasswordHash = testHash
	return c
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, DriverMemory, c.StorageDriver)
	assert.Equal(t, "admin", c.AdminUsername)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "info", c.LogLevel)

	// secrets never get a compiled-in default
	assert.Empty(t, c.SecretKey)
	assert.Empty(t, c.AdminPasswordHash)
}

func TestLoadDefaults_FailValidation(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key is required")
	assert.Contains(t, err.Error(), "admin password hash is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid memory", mutate: func(c *Config) {}},
		{name: "valid postgres", mutate: func(c *Config) {
			c.StorageDriver = DriverPostgres
			c.DatabaseDSN = "postgres://u:p@db/college"
		}},
		{name: "short secret", mutate: func(c *Config) { c.SecretKey = "short" }, wantErr: "at least 32 bytes"},
		{name: "no username", mutate: func(c *Config) { c.AdminUsername = "" }, wantErr: "admin username is required"},
		{name: "zero ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }, wantErr: "validity must be positive"},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.StorageDriver = DriverSQLite }, wantErr: "dsn is required for sqlite"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "mongo" }, wantErr: `unknown storage driver "mongo"`},
		{name: "plaintext password", mutate: func(c *Config) { c.AdminPasswordHash = "hunter2" }, wantErr: "not a bcrypt hash"},
		{name: "no http addr", mutate: func(c *Config) { c.EndpointAddrHTTP = "" }, wantErr: "http address is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":             ":7000",
		"secret_key":                     "from-json",
		"access_token_validity_duration": "45m",
	})
	t.Setenv("COLLEGE_SECRET_KEY", "from-env")
	t.Setenv("COLLEGE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig([]string{"-c", path, "-l", "warn"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.EndpointAddrHTTP, "json overrides default")
	assert.Equal(t, "from-env", cfg.SecretKey, "env overrides json")
	assert.Equal(t, "warn", cfg.LogLevel, "flag overrides env")
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC, "untouched default survives")
}

func TestLoadConfig_BadJSONPath(t *testing.T) {
	_, err := LoadConfig([]string{"-c", "/does/not/exist.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json config")
}
