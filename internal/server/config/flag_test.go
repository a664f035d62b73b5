package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		start    Config
		expected Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-g", ":6000", "-b", "postgres", "-d", "postgres://db",
				"-s", "secret", "-u", "dean", "-p", testHash, "-t", "5", "-w", "2", "-l", "debug",
			},
			expected: Config{
				EndpointAddrHTTP:            "127.0.0.1:9090",
				EndpointAddrGRPC:            ":6000",
				StorageDriver:               DriverPostgres,
				DatabaseDSN:                 "postgres://db",
				SecretKey:                   "secret",
				AdminUsername:               "dean",
				AdminPasswordHash:           testHash,
				AccessTokenValidityDuration: 5 * time.Minute,
				ShutdownTimeout:             2 * time.Second,
				LogLevel:                    "debug",
			},
		},
		{
			name:     "unset duration flags keep sub-minute values",
			args:     []string{"-c", "ignored.json", "-l", "warn"},
			start:    Config{AccessTokenValidityDuration: 90 * time.Second, ShutdownTimeout: 1500 * time.Millisecond},
			expected: Config{AccessTokenValidityDuration: 90 * time.Second, ShutdownTimeout: 1500 * time.Millisecond, LogLevel: "warn"},
		},
		{
			name:    "non numeric ttl",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.start
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
