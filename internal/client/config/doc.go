// Package config loads runtime configuration for the posterboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are read as YAML, anything else as JSON with comments.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the HTTP API
//	-a string   address:port of the gRPC endpoint
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # File schema
//
// Durations are timex.Duration values, so "10s" and integer nanoseconds both
// work:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
