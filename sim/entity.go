package sim

// EntityID is a dense, monotonically increasing handle for a simulation
// participant. IDs are assigned once at creation, start at 0, and are
// never reused; an entity exists for the remainder of the run.
type EntityID int

type entityHook struct {
	tag string
	fn  func(*Kernel, EntityID)
}

// RegisterEntity allocates the next EntityID and synchronously runs every
// registered creation hook for it before returning. Entity-creating
// modules must call this while finalizing a new entity, before handing the
// id to their caller; deferred "created" notifications are the creating
// module's responsibility and go through QueueCallback.
func (k *Kernel) RegisterEntity() EntityID {
	id := EntityID(k.population)
	k.population++

	// Hooks added by a hook do not see this entity; they cover existing
	// entities with their own full scan at registration time.
	hooks := k.creationHooks
	for i := range hooks {
		hooks[i].fn(k, id)
	}
	return id
}

// Population returns the number of entities created on this kernel.
// EntityIDs 0 through Population()-1 exist.
func (k *Kernel) Population() int {
	return k.population
}

// OnEntityCreated registers an immediate creation hook under a tag. The
// hook runs synchronously inside RegisterEntity for every subsequent
// entity. Multiple hooks may share a tag; RemoveEntityCreatedHooks removes
// them together.
func (k *Kernel) OnEntityCreated(tag string, fn func(*Kernel, EntityID)) {
	if fn == nil {
		return
	}
	k.creationHooks = append(k.creationHooks, entityHook{tag: tag, fn: fn})
}

// RemoveEntityCreatedHooks removes every creation hook registered under
// tag. Removing an unknown tag is a no-op.
func (k *Kernel) RemoveEntityCreatedHooks(tag string) {
	kept := k.creationHooks[:0]
	for _, h := range k.creationHooks {
		if h.tag != tag {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(k.creationHooks); i++ {
		k.creationHooks[i] = entityHook{}
	}
	k.creationHooks = kept
}
