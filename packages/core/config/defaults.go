package config

import "time"

const (
	DefaultDelay   = 500 * time.Millisecond
	DefaultTimeout = 30 * time.Second
	DefaultOutput  = "console"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Delay:           DurationPtr(DefaultDelay),
		Timeout:         DurationPtr(DefaultTimeout),
		FollowRedirects: BoolPtr(true),
		ValidateSSL:     BoolPtr(true),
		Output:          DefaultOutput,
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	return c.APIURL == "" &&
		c.GetDelay() == DefaultDelay &&
		c.GetTimeout() == DefaultTimeout &&
		c.RateLimit == 0 &&
		c.GetFollowRedirects() &&
		c.GetValidateSSL() &&
		c.Proxy == "" &&
		len(c.Headers) == 0 &&
		c.Catalog == "" &&
		(c.Output == "" || c.Output == DefaultOutput) &&
		c.OutputFile == "" &&
		!c.GetVerbose() &&
		!c.GetNoColor()
}
