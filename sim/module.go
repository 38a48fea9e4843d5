package sim

import (
	"sync"

	"github.com/teranos/SIMYX/errors"
)

// The module registry maps module names to arena slot indices. It is the
// only process-wide mutable state in the framework: registration normally
// happens in package variable initializers, giving a deterministic index
// order, but the registry stays safe under concurrent registration and
// under first-touch from kernel instances running on separate goroutines.
// A name registers exactly once for the lifetime of the process.
var (
	registryMu sync.RWMutex
	moduleDefs []moduleDef
	moduleIdx  = make(map[string]int)
)

type moduleDef struct {
	name    string
	factory func() any
}

// ModuleType is the typed handle for a registered module. Handles are
// obtained once from RegisterModule and stored by the registering package;
// a zero ModuleType is unusable. The numeric slot index is deliberately
// not exposed.
type ModuleType[T any] struct {
	index int
	name  string
}

// Name returns the module name the handle was registered under.
func (m ModuleType[T]) Name() string {
	return m.name
}

// RegisterModule registers a module under a unique name and returns its
// typed handle. The factory builds the module's per-kernel container; it
// runs at most once per kernel, on first access, and must depend on no
// kernel state. Registering a name twice is a fatal configuration error.
//
// Call RegisterModule from a package variable initializer:
//
//	var statusModule = sim.RegisterModule("epidemic.status", newStatusState)
func RegisterModule[T any](name string, factory func() *T) ModuleType[T] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty module name"))
	}
	if factory == nil {
		panic(errors.AssertionFailedf("module %q registered with nil factory", name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := moduleIdx[name]; exists {
		panic(errors.Wrapf(errors.ErrModuleConflict, "module %q", name))
	}

	index := len(moduleDefs)
	moduleDefs = append(moduleDefs, moduleDef{
		name:    name,
		factory: func() any { return factory() },
	})
	moduleIdx[name] = index

	return ModuleType[T]{index: index, name: name}
}

// RegisteredModules returns the names of all registered modules in
// registration order.
func RegisteredModules() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, len(moduleDefs))
	for i, def := range moduleDefs {
		names[i] = def.name
	}
	return names
}

// DataFor returns the kernel's container for module m, constructing it via
// the registered factory on first access. The same pointer is returned for
// the kernel's lifetime.
func DataFor[T any](k *Kernel, m ModuleType[T]) *T {
	if m.name == "" {
		panic(errors.AssertionFailedf("zero module handle; obtain handles from RegisterModule"))
	}

	if m.index >= len(k.slots) {
		grown := make([]any, m.index+1)
		copy(grown, k.slots)
		k.slots = grown
	}
	if k.slots[m.index] == nil {
		registryMu.RLock()
		factory := moduleDefs[m.index].factory
		registryMu.RUnlock()
		k.slots[m.index] = factory()
	}

	data, ok := k.slots[m.index].(*T)
	if !ok {
		// Unreachable through typed handles; indicates registry corruption.
		panic(errors.AssertionFailedf("module %q slot holds %T", m.name, k.slots[m.index]))
	}
	return data
}

// LoadedData returns the kernel's container for module m only if it was
// already constructed, without triggering construction.
func LoadedData[T any](k *Kernel, m ModuleType[T]) (*T, bool) {
	if m.name == "" || m.index >= len(k.slots) || k.slots[m.index] == nil {
		return nil, false
	}
	data, ok := k.slots[m.index].(*T)
	if !ok {
		panic(errors.AssertionFailedf("module %q slot holds %T", m.name, k.slots[m.index]))
	}
	return data, true
}
