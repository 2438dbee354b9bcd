package config

import "os"

// Default values for configuration.
const (
	DefaultSeparator = ","
	DefaultEncoding  = "latin-1"
	DefaultUnitRow   = "auto"
)

// Environment variable names.
const (
	EnvSeparator = "LOGVIZ_SEPARATOR"
	EnvEncoding  = "LOGVIZ_ENCODING"
)

// DefaultConfig returns a configuration with sensible defaults.
// A missing or empty config file leaves the built-in grouping rules in
// charge and parses a comma-separated latin-1 log.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Separator: DefaultSeparator,
			Encoding:  DefaultEncoding,
			UnitRow:   DefaultUnitRow,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if sep := os.Getenv(EnvSeparator); sep != "" {
		c.Input.Separator = sep
	}
	if enc := os.Getenv(EnvEncoding); enc != "" {
		c.Input.Encoding = enc
	}
}
