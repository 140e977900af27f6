// Package config loads runtime configuration for the Matchbox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string      address:port of the backend gRPC endpoint
//	-i int         online status check interval (seconds)
//	-db string     local state database file
//	-audio string  file the capture device streams from
//	-chunk int     capture chunk size in bytes
//	-log-level     debug, info, warn or error
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Absent fields keep their defaults:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "matchbox.db",
//	  "capture_source": "clip.webm",
//	  "capture_chunk_size": 4096
//	}
package config
