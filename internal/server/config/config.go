// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the Matchbox server.
//
// Fields:
//   - EndpointAddrGRPC / MetricsAddr: bind addresses for gRPC and /metrics.
//   - SecretKey: HMAC secret for signing access tokens (HS256).
//   - TickUnit, SaveWindowTicks, RevealWindowTicks: ledger windows.
//   - SweepInterval: how often expired records are swept.
//   - StateBackend: memory, sqlite, postgres, redis or pebble.
//   - S3*: object storage for audio clips. An empty bucket disables uploads.
type Config struct {
	EndpointAddrGRPC            string
	MetricsAddr                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration

	TickUnit          time.Duration
	SaveWindowTicks   int
	RevealWindowTicks int
	SweepInterval     time.Duration

	StateBackend  string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PebblePath    string

	CatalogPath string
	LogLevel    string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	PresignTTL     time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden outside local demos.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute

	c.TickUnit = time.Minute
	c.SaveWindowTicks = 4
	c.RevealWindowTicks = 1
	c.SweepInterval = 2 * time.Second

	c.StateBackend = "memory"
	c.DatabaseDSN = ""
	c.RedisAddr = "127.0.0.1:6379"
	c.PebblePath = "data/ledger"

	c.LogLevel = "info"

	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PresignTTL = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
