package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered with flagx.FilterArgs first so -c/-config does not
// trip the parser. Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-db", "-audio", "-chunk", "-log-level"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local state database")
	fs.StringVar(&cfg.CaptureSource, "audio", cfg.CaptureSource, "audio source file for recording")
	fs.IntVar(&cfg.CaptureChunkSize, "chunk", cfg.CaptureChunkSize, "capture chunk size in bytes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
