package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "MATCHBOX_"

// parseEnv overlays MATCHBOX_* variables. A dotenv file given with -env is
// loaded first; variables already set in the process win over the file.
// A missing -env file or a malformed value panics.
func parseEnv(config *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	}

	envString("GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("METRICS_ADDR", &config.MetricsAddr)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	envDuration("TICK_UNIT", &config.TickUnit)
	envInt("SAVE_WINDOW_TICKS", &config.SaveWindowTicks)
	envInt("REVEAL_WINDOW_TICKS", &config.RevealWindowTicks)
	envDuration("SWEEP_INTERVAL", &config.SweepInterval)
	envString("STATE_BACKEND", &config.StateBackend)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)
	envString("PEBBLE_PATH", &config.PebblePath)
	envString("CATALOG_PATH", &config.CatalogPath)
	envString("LOG_LEVEL", &config.LogLevel)
	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envDuration("PRESIGN_TTL", &config.PresignTTL)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = n
}

func envDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}
