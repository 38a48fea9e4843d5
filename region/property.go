package region

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/sim"
)

type propState[V any] struct {
	values []V
}

// Property is the handle for a per-region value with a default; the zero
// Property is unusable.
type Property[V any] struct {
	module sim.ModuleType[propState[V]]
	name   string
	def    V
}

// Name returns the property name passed to DefineProperty.
func (p Property[V]) Name() string {
	return p.name
}

// DefineProperty registers a per-region property under a unique name with
// a default value and returns its handle.
func DefineProperty[V any](name string, def V) Property[V] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty region property name"))
	}
	module := sim.RegisterModule("region.prop."+name, func() *propState[V] {
		return &propState[V]{}
	})
	return Property[V]{module: module, name: name, def: def}
}

// GetProperty returns region r's value, or the default when the region
// was never assigned.
func GetProperty[V any](k *sim.Kernel, p Property[V], r ID) V {
	data := sim.DataFor(k, p.module)
	if i := int(r); i >= 0 && i < len(data.values) {
		return data.values[i]
	}
	return p.def
}

// SetProperty assigns region r's value. The region must have been
// created on the kernel.
func SetProperty[V any](k *sim.Kernel, p Property[V], r ID, v V) {
	if r < 0 || int(r) >= Count(k) {
		panic(errors.Wrapf(errors.ErrUnknownRegion, "region %d", r))
	}
	data := sim.DataFor(k, p.module)
	for len(data.values) <= int(r) {
		data.values = append(data.values, p.def)
	}
	data.values[r] = v
}
