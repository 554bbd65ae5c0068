package sweep

import "time"

// Config holds the sweep engine configuration.
type Config struct {
	Concurrency int           `mapstructure:"concurrency"`
	PingTimeout time.Duration `mapstructure:"ping_timeout"`
	DNSTimeout  time.Duration `mapstructure:"dns_timeout"`
	Interval    time.Duration `mapstructure:"interval"`
}

// DefaultConfig returns the default sweep configuration. Interval 0 disables
// periodic sweeps.
func DefaultConfig() Config {
	return Config{
		Concurrency: 64,
		PingTimeout: 700 * time.Millisecond,
		DNSTimeout:  500 * time.Millisecond,
		Interval:    0,
	}
}
