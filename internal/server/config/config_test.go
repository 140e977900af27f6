package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":9090", c.MetricsAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, time.Minute, c.TickUnit)
	assert.Equal(t, 4, c.SaveWindowTicks)
	assert.Equal(t, 1, c.RevealWindowTicks)
	assert.Equal(t, 2*time.Second, c.SweepInterval)
	assert.Equal(t, "memory", c.StateBackend)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, 15*time.Minute, c.PresignTTL)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc": ":7000",
		"state_backend":      "sqlite",
		"tick_unit":          "10s",
	})
	t.Setenv("MATCHBOX_STATE_BACKEND", "redis")
	t.Setenv("MATCHBOX_TICK_UNIT", "5s")

	os.Args = []string{"testbin", "-c", path, "-tick", "1s"}

	c := LoadConfig()
	assert.Equal(t, ":7000", c.EndpointAddrGRPC, "json over defaults")
	assert.Equal(t, "redis", c.StateBackend, "env over json")
	assert.Equal(t, time.Second, c.TickUnit, "flags over env")
}
