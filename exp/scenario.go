// Package exp runs experiments: a scenario describes population size,
// replication count, and seeding; a model function builds one replication
// on a fresh kernel; a runner executes replications on a bounded worker
// pool with per-replication failure isolation.
package exp

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/SIMYX/errors"
)

// Scenario describes one experiment. Params carries model-specific
// numeric parameters the framework passes through untouched.
type Scenario struct {
	Name         string             `toml:"name" yaml:"name"`
	Model        string             `toml:"model" yaml:"model"`
	Population   int                `toml:"population" yaml:"population"`
	Replications int                `toml:"replications" yaml:"replications"`
	BaseSeed     uint64             `toml:"base_seed" yaml:"base_seed"`
	Workers      int                `toml:"workers" yaml:"workers"`
	OutputDir    string             `toml:"output_dir" yaml:"output_dir"`
	Params       map[string]float64 `toml:"params" yaml:"params"`
}

// Param returns the named model parameter, or def when the scenario does
// not set it.
func (s *Scenario) Param(name string, def float64) float64 {
	if v, ok := s.Params[name]; ok {
		return v
	}
	return def
}

// Normalize fills defaults: one replication, workers from the CPU count.
func (s *Scenario) Normalize() {
	if s.Replications <= 0 {
		s.Replications = 1
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
}

// Validate reports the first problem that would make the scenario
// unrunnable.
func (s *Scenario) Validate() error {
	if s.Population <= 0 {
		return errors.WithHint(
			errors.Newf("scenario population must be positive, got %d", s.Population),
			"set population in the scenario file")
	}
	if s.Replications <= 0 {
		return errors.Newf("scenario replications must be positive, got %d", s.Replications)
	}
	if s.Workers <= 0 {
		return errors.Newf("scenario workers must be positive, got %d", s.Workers)
	}
	return nil
}

// LoadScenario reads a scenario file, picking the format from the
// extension: .toml, .yaml, or .yml. The result is normalized and
// validated.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", path)
	}

	var s Scenario
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, errors.Wrapf(err, "parsing scenario %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, errors.Wrapf(err, "parsing scenario %s", path)
		}
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported scenario format %q", ext),
			"use a .toml or .yaml scenario file")
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return &s, nil
}
