package config

import (
	"os"
	"strings"
	"time"
)

// EnvAPIBaseURL selects the API origin when set.
const EnvAPIBaseURL = "PETADOPT_API_BASE_URL"

// Config holds runtime settings for the petadopt CLI.
//
// Fields:
//   - APIBaseURL: origin of the REST API, e.g. http://localhost:8080.
//   - RequestTimeout: per-request timeout of the HTTP client.
//   - StorePath: SQLite file holding the session between runs; "~" expands.
//   - LogLevel, LogFormat: see logging.New.
//   - MissingExpValid: treat tokens without an "exp" claim as never
//     expiring instead of already expired.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	StorePath       string
	LogLevel        string
	LogFormat       string
	MissingExpValid bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.StorePath = "~/.petadopt/session.db"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.MissingExpValid = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given with -c/-config), the environment and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && strings.TrimSpace(v) != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
}
