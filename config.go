package banker

import (
	"fmt"

	"github.com/allocsafe/banker/model"
)

// Config is a serialisable representation of the engine configuration.  It
// can be populated from JSON, YAML, environment-driven loaders, etc.  The
// zero value is useful - all fields inherit their package defaults.
type Config struct {
	// Capacity bounds the dimensions of loaded states.
	Capacity model.Capacity `json:"capacity" yaml:"capacity"`

	// QueueBuffer sizes the in-memory request queue.
	QueueBuffer int `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Capacity:    model.DefaultCapacity(),
		QueueBuffer: 100,
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Capacity.MaxProcesses < 0 || c.Capacity.MaxResources < 0 {
		return fmt.Errorf("capacity bounds must not be negative")
	}
	if c.QueueBuffer < 0 {
		return fmt.Errorf("queueBuffer must not be negative")
	}
	return nil
}
