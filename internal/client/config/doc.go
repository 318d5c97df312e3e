// Package config loads runtime configuration for the petadopt CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via -c or -config.
//     JSON by default, YAML when the name ends in .yaml or .yml.
//  3. The PETADOPT_API_BASE_URL environment variable.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-s string   session store path
//	-l string   log level
//
// # File schema
//
//	{
//	  "api_base_url": "https://pets.example.org/api",
//	  "request_timeout": "10s",
//	  "store_path": "~/.petadopt/session.db",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "missing_exp_valid": false
//	}
//
// The same keys are used in YAML.
package config
