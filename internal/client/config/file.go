package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/flagx"
	"github.com/dmitrijs2005/petadopt/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for unmarshalling the config file.
// Durations use timex.Duration, so either "10s" or integer nanoseconds are
// accepted. Only the keys present in the file override the current values.
type FileConfig struct {
	APIBaseURL      string          `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout  *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StorePath       string          `json:"store_path" yaml:"store_path"`
	LogLevel        string          `json:"log_level" yaml:"log_level"`
	LogFormat       string          `json:"log_format" yaml:"log_format"`
	MissingExpValid *bool           `json:"missing_exp_valid" yaml:"missing_exp_valid"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON. Panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.MissingExpValid != nil {
		cfg.MissingExpValid = *fc.MissingExpValid
	}
}
