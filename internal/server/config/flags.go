package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/college/internal/flagx"
)

// parseFlags overlays values from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC health bind address (e.g. ":50051")
//	-b string   storage driver: memory, postgres or sqlite
//	-d string   database DSN (postgres URL or sqlite file path)
//	-s string   JWT HMAC secret key
//	-u string   admin username
//	-p string   admin bcrypt password hash
//	-t int      access token validity, minutes
//	-w int      graceful shutdown timeout, seconds
//	-l string   log level: debug, info, warn, error
//
// Only the flags above are looked at, so -c/-config and unrelated arguments
// do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-b", "-d", "-s", "-u", "-p", "-t", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "http address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "grpc health address and port")
	fs.StringVar(&config.StorageDriver, "b", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPasswordHash, "p", config.AdminPasswordHash, "admin password bcrypt hash")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessTokenMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	shutdownSeconds := fs.Int("w", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Durations set through JSON or env may not be whole minutes or seconds,
	// so they are only replaced when the flag was actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenMinutes) * time.Minute
		case "w":
			config.ShutdownTimeout = time.Duration(*shutdownSeconds) * time.Second
		}
	})
	return nil
}
