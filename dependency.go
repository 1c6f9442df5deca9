package loom

// DependencyMap records, for one system, which components and resources it
// touches and in which AccessMode. It is what Param.contributeDependencies
// populates and what the scheduler consults to place a system in the
// dependency graph (scheduler.go), grounded on
// original_source/src/query.rs's SparseSet<ComponentId, AccessMode> used
// identically on the Rust side.
//
// Per spec.md §9's Open Question: a ResMut contributes Write just like a
// Write[T] query term — there is no separate resource-access-mode lattice,
// so a pinned ResMut also forces its system exclusive (resource.go,
// system.go's isExclusive).
type DependencyMap struct {
	modes *SparseSet[ComponentId, AccessMode]
}

func NewDependencyMap() *DependencyMap {
	return &DependencyMap{modes: NewSparseSet[ComponentId, AccessMode]()}
}

// add records access to id in mode, panicking if id was already present at
// all — same mode or not. This is the per-query-param rule: a component
// MUST NOT appear twice within one query, mirroring
// original_source/src/query.rs's compute_component_set, which panics on
// any `!component_set.insert(id, mode)`, itself driven by
// original_source/src/sparse_set.rs's insert returning false for any
// existing key, regardless of the value being overwritten.
func (d *DependencyMap) add(id ComponentId, mode AccessMode) {
	if existing, ok := d.modes.Get(id); ok {
		panic(traceErrorf("conflicting access to component %d: already %s, now %s", id, existing, mode))
	}
	d.modes.Insert(id, mode)
}

// Each iterates every (ComponentId, AccessMode) pair this system declared.
func (d *DependencyMap) Each(fn func(ComponentId, AccessMode)) {
	d.modes.Each(fn)
}

// mergeUpgrading folds other's entries into d, the system-level merge of
// several distinct params' dependency sets. Unlike add, a component two
// params both touch is NOT a contract violation here — it is legitimate
// for one query to read Position and another to write it — so a
// conflicting mode upgrades the system's record to Write rather than
// panicking, mirroring original_source/src/system.rs's add_dependencies:
// an existing entry is only overwritten when the incoming access is
// Write, never rejected.
func (d *DependencyMap) mergeUpgrading(other *DependencyMap) {
	other.modes.Each(func(id ComponentId, mode AccessMode) {
		if _, ok := d.modes.Get(id); ok {
			if mode == AccessWrite {
				d.modes.Insert(id, AccessWrite)
			}
			return
		}
		d.modes.Insert(id, mode)
	})
}
