// Package report routes typed result items from model code to pluggable
// sinks. A model defines a report once, releases items as events unfold,
// and stays ignorant of where they land; the experiment layer installs a
// handler per kernel deciding that (CSV file, channel, SQLite table).
package report

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/sim"
)

type state[T any] struct {
	handler func(T)
}

// Type is the handle for a defined report; the zero Type is unusable.
type Type[T any] struct {
	module sim.ModuleType[state[T]]
	name   string
}

// Name returns the report name passed to Define.
func (r Type[T]) Name() string {
	return r.name
}

// Define registers a report of item type T under a unique name and
// returns its handle.
func Define[T any](name string) Type[T] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty report name"))
	}
	module := sim.RegisterModule("report."+name, func() *state[T] {
		return &state[T]{}
	})
	return Type[T]{module: module, name: name}
}

// SetHandler installs the kernel's sink for report r, replacing any
// previous handler.
func SetHandler[T any](k *sim.Kernel, r Type[T], fn func(T)) {
	sim.DataFor(k, r.module).handler = fn
}

// Release hands item to the kernel's handler for report r, synchronously.
// Releasing with no handler installed is a fatal configuration error: a
// model asked to record results nobody collects.
func Release[T any](k *sim.Kernel, r Type[T], item T) {
	data := sim.DataFor(k, r.module)
	if data.handler == nil {
		panic(errors.Wrapf(errors.ErrNoReportHandler, "report %q", r.name))
	}
	data.handler(item)
}
