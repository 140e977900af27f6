package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string         gRPC bind address (e.g., ":50051")
//	-m string         metrics bind address
//	-s string         JWT HMAC secret key
//	-t int            access token validity, minutes
//	-tick duration    ledger tick unit (e.g., "1m", "1s")
//	-save-ticks int   save window, in ticks
//	-reveal-ticks int reveal window, in ticks
//	-sweep duration   expiry sweep interval
//	-store string     state backend
//	-d string         database DSN (postgres) or file (sqlite)
//	-redis string     redis address
//	-pebble string    pebble directory
//	-catalog string   catalog YAML file
//	-log-level string debug, info, warn or error
//	-u, -p, -b, -g, -e  S3 user, password, bucket, region, base endpoint
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// -c/-config and -env don't trip the parser. Invalid values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-s", "-t",
		"-tick", "-save-ticks", "-reveal-ticks", "-sweep",
		"-store", "-d", "-redis", "-pebble",
		"-catalog", "-log-level",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to expose metrics")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.DurationVar(&config.TickUnit, "tick", config.TickUnit, "ledger tick unit")
	fs.IntVar(&config.SaveWindowTicks, "save-ticks", config.SaveWindowTicks, "save window in ticks")
	fs.IntVar(&config.RevealWindowTicks, "reveal-ticks", config.RevealWindowTicks, "reveal window in ticks")
	fs.DurationVar(&config.SweepInterval, "sweep", config.SweepInterval, "expiry sweep interval")

	fs.StringVar(&config.StateBackend, "store", config.StateBackend, "state backend (memory|sqlite|postgres|redis|pebble)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.PebblePath, "pebble", config.PebblePath, "pebble directory")

	fs.StringVar(&config.CatalogPath, "catalog", config.CatalogPath, "catalog YAML file")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t overrides, so sub-minute values from JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
}
