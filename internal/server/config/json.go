package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/flagx"
	"github.com/dmitrijs2005/matchbox/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "90s" style
// strings or integer nanoseconds. Absent fields keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                 *string         `json:"metrics_addr"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	TickUnit                    *timex.Duration `json:"tick_unit"`
	SaveWindowTicks             *int            `json:"save_window_ticks"`
	RevealWindowTicks           *int            `json:"reveal_window_ticks"`
	SweepInterval               *timex.Duration `json:"sweep_interval"`
	StateBackend                *string         `json:"state_backend"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	RedisAddr                   *string         `json:"redis_addr"`
	RedisPassword               *string         `json:"redis_password"`
	RedisDB                     *int            `json:"redis_db"`
	PebblePath                  *string         `json:"pebble_path"`
	CatalogPath                 *string         `json:"catalog_path"`
	LogLevel                    *string         `json:"log_level"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	PresignTTL                  *timex.Duration `json:"presign_ttl"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.TickUnit, c.TickUnit)
	setInt(&config.SaveWindowTicks, c.SaveWindowTicks)
	setInt(&config.RevealWindowTicks, c.RevealWindowTicks)
	setDuration(&config.SweepInterval, c.SweepInterval)
	setString(&config.StateBackend, c.StateBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setString(&config.PebblePath, c.PebblePath)
	setString(&config.CatalogPath, c.CatalogPath)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PresignTTL, c.PresignTTL)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
