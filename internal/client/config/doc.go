// Package config loads runtime configuration for the Second Brain CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   server URL, e.g. http://127.0.0.1:5000
//	-d string   state directory for the saved session
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so each can be either a
// string like "10s" or integer nanoseconds. Missing keys keep their defaults:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "state_dir": "/home/me/.config/secondbrain",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
