// Package epidemic implements a stochastic SIR compartment model with
// regional mixing.
//
// Entities progress susceptible -> infectious -> recovered. Each
// infectious entity contacts uniformly chosen members of its own region
// at rate beta per day and recovers at rate gamma per day. A daily
// timeseries report tracks compartment counts and new cases.
package epidemic

import (
	"github.com/teranos/SIMYX/domains"
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/exp"
	"github.com/teranos/SIMYX/sim"
)

// Compartment is an entity's place in the SIR progression.
type Compartment int

const (
	Susceptible Compartment = iota
	Infectious
	Recovered
)

func (c Compartment) String() string {
	switch c {
	case Susceptible:
		return "susceptible"
	case Infectious:
		return "infectious"
	case Recovered:
		return "recovered"
	}
	return "unknown"
}

// params are read from the scenario's params table.
type params struct {
	beta            float64 // contact rate per infectious entity per day
	gamma           float64 // recovery rate per day
	days            int     // sampling horizon
	initialInfected int
	regions         int
}

func paramsFrom(s *exp.Scenario) (params, error) {
	p := params{
		beta:            s.Param("beta", 0.3),
		gamma:           s.Param("gamma", 0.1),
		days:            int(s.Param("days", 365)),
		initialInfected: int(s.Param("initial_infected", 1)),
		regions:         int(s.Param("regions", 1)),
	}
	if p.beta <= 0 {
		return p, errors.Newf("beta must be positive, got %g", p.beta)
	}
	if p.gamma <= 0 {
		return p, errors.Newf("gamma must be positive, got %g", p.gamma)
	}
	if p.days <= 0 {
		return p, errors.Newf("days must be positive, got %d", p.days)
	}
	if p.initialInfected <= 0 {
		return p, errors.Newf("initial_infected must be positive, got %d", p.initialInfected)
	}
	if p.initialInfected > s.Population {
		return p, errors.Newf("initial_infected %d exceeds population %d", p.initialInfected, s.Population)
	}
	if p.regions <= 0 {
		return p, errors.Newf("regions must be positive, got %d", p.regions)
	}
	return p, nil
}

type domain struct{}

// Domain returns the epidemic domain for registration.
func Domain() domains.Domain { return domain{} }

func (domain) Metadata() domains.Metadata {
	return domains.Metadata{
		Name:        "epidemic",
		Version:     "1.0.0",
		Description: "Stochastic SIR compartment model with regional mixing",
	}
}

func (domain) Model(s *exp.Scenario) (exp.Model, error) {
	p, err := paramsFrom(s)
	if err != nil {
		return nil, errors.Wrap(err, "epidemic parameters")
	}
	return func(k *sim.Kernel, rep exp.Replication) error {
		return build(k, rep, p)
	}, nil
}
