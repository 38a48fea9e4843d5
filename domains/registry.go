package domains

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/SIMYX/errors"
)

// Registry manages the available domains
type Registry struct {
	mu      sync.RWMutex
	domains map[string]Domain
	version string // SIMYX version
}

// NewRegistry creates a registry for a framework version
func NewRegistry(simyxVersion string) *Registry {
	return &Registry{
		domains: make(map[string]Domain),
		version: simyxVersion,
	}
}

// Register adds a domain. Returns an error on a name conflict or when
// the domain's framework version constraint is not met.
func (r *Registry) Register(d Domain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadata := d.Metadata()
	if metadata.Name == "" {
		return errors.New("domain has no name")
	}
	if _, exists := r.domains[metadata.Name]; exists {
		return errors.Newf("domain already registered: %s", metadata.Name)
	}
	if err := r.validateVersion(metadata); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", metadata.Name)
	}

	r.domains[metadata.Name] = d
	return nil
}

// Get retrieves a domain by name
func (r *Registry) Get(name string) (Domain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.domains[name]
	return d, ok
}

// List returns all registered domain names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.domains))
	for name := range r.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateVersion checks the domain's constraint against the framework
// version. Untagged dev builds carry no parseable version and accept
// every domain.
func (r *Registry) validateVersion(metadata Metadata) error {
	if metadata.SIMYXVersion == "" {
		return nil
	}

	simyxVer, err := semver.NewVersion(r.version)
	if err != nil {
		return nil
	}

	constraint, err := semver.NewConstraint(metadata.SIMYXVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", metadata.SIMYXVersion)
	}

	if !constraint.Check(simyxVer) {
		return errors.Newf("domain requires SIMYX %s, but running %s", metadata.SIMYXVersion, r.version)
	}

	return nil
}

// Global registry instance
var defaultRegistry *Registry

// SetDefaultRegistry sets the global registry
func SetDefaultRegistry(registry *Registry) {
	defaultRegistry = registry
}

// GetDefaultRegistry returns the global registry
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}

// Register registers a domain with the global registry
func Register(d Domain) error {
	if defaultRegistry == nil {
		return errors.New("default registry not initialized")
	}
	return defaultRegistry.Register(d)
}

// Get retrieves a domain from the global registry
func Get(name string) (Domain, bool) {
	if defaultRegistry == nil {
		return nil, false
	}
	return defaultRegistry.Get(name)
}

// List returns the global registry's domain names in sorted order
func List() []string {
	if defaultRegistry == nil {
		return nil
	}
	return defaultRegistry.List()
}
