package limiter

import "fmt"

// ResourceConfig holds the token bucket parameters for one resource.
type ResourceConfig struct {
	// Rate is the refill speed in tokens per second.
	Rate int64 `mapstructure:"rate"`
	// Capacity is the bucket size, which bounds the allowed burst.
	Capacity int64 `mapstructure:"capacity"`
}

type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Default applies to every resource without an explicit entry.
	Default ResourceConfig `mapstructure:"default"`
	// Resources overrides Default per resource key.
	Resources map[string]ResourceConfig `mapstructure:"resources"`
}

func DefaultResourceConfig() ResourceConfig {
	return ResourceConfig{Rate: 100, Capacity: 200}
}

func DefaultConfig() Config {
	return Config{Default: DefaultResourceConfig()}
}

// ApplyDefaults fills zero fields in Default from the built-in values
// and zero fields in each resource entry from Default.
func (c *Config) ApplyDefaults() {
	builtin := DefaultResourceConfig()
	if c.Default.Rate == 0 {
		c.Default.Rate = builtin.Rate
	}
	if c.Default.Capacity == 0 {
		c.Default.Capacity = builtin.Capacity
	}
	for name, rc := range c.Resources {
		if rc.Rate == 0 {
			rc.Rate = c.Default.Rate
		}
		if rc.Capacity == 0 {
			rc.Capacity = c.Default.Capacity
		}
		c.Resources[name] = rc
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.Default.validate(); err != nil {
		return fmt.Errorf("limiter default: %w", err)
	}
	for name, rc := range c.Resources {
		if err := rc.validate(); err != nil {
			return fmt.Errorf("limiter resource %q: %w", name, err)
		}
	}
	return nil
}

func (rc ResourceConfig) validate() error {
	if rc.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", rc.Rate)
	}
	if rc.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", rc.Capacity)
	}
	return nil
}
