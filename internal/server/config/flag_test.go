package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    func() *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-m", ":9100", "-s", "secret", "-t", "5",
				"-tick", "1s", "-save-ticks", "6", "-reveal-ticks", "2", "-sweep", "500ms",
				"-store", "postgres", "-d", "postgres://db", "-redis", "redis:6379", "-pebble", "/tmp/p",
				"-catalog", "cat.yaml", "-log-level", "debug",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: func() *Config {
				c := base()
				c.EndpointAddrGRPC = "127.0.0.1:9090"
				c.MetricsAddr = ":9100"
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = 5 * time.Minute
				c.TickUnit = time.Second
				c.SaveWindowTicks = 6
				c.RevealWindowTicks = 2
				c.SweepInterval = 500 * time.Millisecond
				c.StateBackend = "postgres"
				c.DatabaseDSN = "postgres://db"
				c.RedisAddr = "redis:6379"
				c.PebblePath = "/tmp/p"
				c.CatalogPath = "cat.yaml"
				c.LogLevel = "debug"
				c.S3RootUser = "user"
				c.S3RootPassword = "password"
				c.S3Bucket = "bucket"
				c.S3Region = "us-west-1"
				c.S3BaseEndpoint = "http://endpoint"
				return c
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"cmd", "-c", "conf.json", "-env", ".env", "-store", "pebble"},
			expected: func() *Config { c := base(); c.StateBackend = "pebble"; return c },
		},
		{
			name:        "bad duration panics",
			args:        []string{"cmd", "-tick", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := base()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected(), config))
		})
	}
}

func TestParseFlags_TokenTTLOnlyWhenGiven(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	c := &Config{AccessTokenValidityDuration: 90 * time.Second}
	parseFlags(c)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
}
