package config

import "time"

// Config holds runtime settings for the EchoEnglish CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - HTTPTimeout: end-to-end bound for every backend request.
//   - DatabaseDSN: path of the local sqlite cache.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	DatabaseDSN string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8099"
	c.HTTPTimeout = 30 * time.Second
	c.DatabaseDSN = "echoenglish.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
