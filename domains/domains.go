// Package domains catalogs the simulation models the simyx binary can
// run.
//
// A domain packages one model family (e.g. epidemic): it declares
// metadata and builds an exp.Model for a concrete scenario. Domains are
// compiled into the binary and registered explicitly at startup; a
// scenario selects one by name through its model field.
package domains

import "github.com/teranos/SIMYX/exp"

// Domain packages one simulation model family.
type Domain interface {
	// Metadata returns information about this domain
	Metadata() Metadata

	// Model builds the model for one scenario. The returned function
	// runs once per replication on a fresh kernel, possibly from several
	// goroutines at once, so it must not capture mutable state.
	Model(s *exp.Scenario) (exp.Model, error)
}

// Metadata describes a domain
type Metadata struct {
	// Name is the identifier scenarios select the domain by (e.g. "epidemic")
	Name string

	// Version is the domain version (semver)
	Version string

	// SIMYXVersion is the required framework version (semver constraint,
	// empty = any)
	SIMYXVersion string

	// Description is a human-readable description
	Description string
}
