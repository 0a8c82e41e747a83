// Package config loads runtime configuration for the NayiDisha CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed NAYIDISHA_, after loading a dotenv
//     file given by -e/-env or ./.env when it exists.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-m string   backend mode: development or production
//	-a string   backend base URL (overrides the mode)
//	-d string   local state database path
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "mode": "production",
//	  "db_path": "nayidisha.db",
//	  "log_format": "zap",
//	  "online_check_interval": "3s",
//	  "debounce_delay": "300ms",
//	  "s3": {"bucket": "reports", "region": "ap-south-1"}
//	}
//
// Loaders panic on malformed input; call (*Config).Validate afterwards to
// check the combined result.
package config
