package config

import "github.com/teranos/SIMYX/errors"

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Run.Workers < 0 {
		return errors.Newf("run.workers must be >= 0, got %d", c.Run.Workers)
	}

	return nil
}
