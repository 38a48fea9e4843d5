package exp

import "github.com/teranos/SIMYX/sim"

type cleanupState struct {
	funcs []func() error
}

var cleanupModule = sim.RegisterModule("exp.cleanup", func() *cleanupState {
	return &cleanupState{}
})

// Defer registers fn to run once the replication's kernel has drained,
// or once the model fails. Models use this to close report sinks they
// opened during the build. Functions run in registration order; the
// first error becomes part of the replication's outcome.
func Defer(k *sim.Kernel, fn func() error) {
	if fn == nil {
		return
	}
	data := sim.DataFor(k, cleanupModule)
	data.funcs = append(data.funcs, fn)
}

func runCleanups(k *sim.Kernel) error {
	data, ok := sim.LoadedData(k, cleanupModule)
	if !ok {
		return nil
	}
	var firstErr error
	for _, fn := range data.funcs {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	data.funcs = nil
	return firstErr
}
