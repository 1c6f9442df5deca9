package loom

// systemParam is the system-parameter surface of spec.md §6: every
// concrete parameter type a system function can declare (Query1..Query4,
// Res[T], ResMut[T], Exclusive) implements it so the scheduler can treat
// them uniformly while keeping each parameter's own type-safe materialize
// step. Grounded on original_source/src/system.rs's SystemParam trait,
// translated from Rust's associated-type State into Go's any plus runtime
// assertions, since Go methods cannot introduce their own type parameter.
type systemParam interface {
	contributeDependencies(w *World, deps *DependencyMap)
	createState(w *World) any
	onEntityChanged(state any, w *World, e Entity, info *EntityInfo)
	onEntityDestroyed(state any, w *World, e Entity)
	isExclusive(w *World) bool
	materialize(state any, w *World) any
}

// worldMarker is the component id under which an Exclusive parameter's
// whole-world write claim is recorded in the dependency graph, mirroring
// original_source/src/system.rs's get_or_create_component_id::<WorldContainer>().
type worldMarker struct{}

// Exclusive is the "takes the whole container" parameter: a system
// declaring it is a barrier, per spec.md §5 ("the world container itself
// is exclusive... MUST be the system's only parameter").
type Exclusive struct {
	w *World
}

// World returns the wrapped container.
func (e Exclusive) World() *World { return e.w }

func (Exclusive) contributeDependencies(w *World, deps *DependencyMap) {
	deps.add(componentIdFor[worldMarker](w), AccessWrite)
}
func (Exclusive) createState(*World) any                                  { return nil }
func (Exclusive) onEntityChanged(any, *World, Entity, *EntityInfo)        {}
func (Exclusive) onEntityDestroyed(any, *World, Entity)                  {}
func (Exclusive) isExclusive(*World) bool                                { return true }
func (Exclusive) materialize(_ any, w *World) any                        { return Exclusive{w: w} }

// System is the scheduler's atomic unit of work: a name, a dependency
// map computed once at insertion, an exclusivity flag, and the closures
// NewSystem1..NewSystem4 build to run the user's function and fan out
// entity-change notifications to each parameter's cached state.
//
// Grounded on original_source/src/system.rs's SystemContainer<F, A> plus
// its impl_system! macro — Go's lack of variadic generics is worked
// around the same way query.go's Query1..Query4 are: a closed numbered
// arity instead of a macro expansion.
type System struct {
	name      string
	deps      *DependencyMap
	exclusive bool

	initFn      func(w *World)
	runFn       func(w *World)
	changedFn   func(w *World, e Entity, info *EntityInfo)
	destroyedFn func(w *World, e Entity)
}

// Name reports the system's diagnostic label.
func (s *System) Name() string { return s.name }

func (s *System) init(w *World) {
	s.initFn(w)
	w.entities.each(func(e Entity, info *EntityInfo) {
		s.changedFn(w, e, info)
	})
}

func (s *System) run(w *World) { s.runFn(w) }

func (s *System) onEntityChanged(w *World, e Entity, info *EntityInfo) {
	s.changedFn(w, e, info)
}

func (s *System) onEntityDestroyed(w *World, e Entity) {
	s.destroyedFn(w, e)
}

// NewSystem1 builds a system from a function taking one parameter.
func NewSystem1[P1 systemParam](name string, fn func(P1)) *System {
	var p1 P1
	sys := &System{name: name}
	var s1 any

	sys.initFn = func(w *World) {
		deps := NewDependencyMap()
		p1.contributeDependencies(w, deps)
		sys.deps = deps
		sys.exclusive = p1.isExclusive(w)
		s1 = p1.createState(w)
	}
	sys.runFn = func(w *World) {
		fn(p1.materialize(s1, w).(P1))
	}
	sys.changedFn = func(w *World, e Entity, info *EntityInfo) {
		p1.onEntityChanged(s1, w, e, info)
	}
	sys.destroyedFn = func(w *World, e Entity) {
		p1.onEntityDestroyed(s1, w, e)
	}
	return sys
}

// NewSystem2 builds a system from a function taking two parameters.
func NewSystem2[P1, P2 systemParam](name string, fn func(P1, P2)) *System {
	var p1 P1
	var p2 P2
	sys := &System{name: name}
	var s1, s2 any

	sys.initFn = func(w *World) {
		deps := NewDependencyMap()
		p1.contributeDependencies(w, deps)
		p2.contributeDependencies(w, deps)
		sys.deps = deps
		sys.exclusive = p1.isExclusive(w) || p2.isExclusive(w)
		s1 = p1.createState(w)
		s2 = p2.createState(w)
	}
	sys.runFn = func(w *World) {
		fn(p1.materialize(s1, w).(P1), p2.materialize(s2, w).(P2))
	}
	sys.changedFn = func(w *World, e Entity, info *EntityInfo) {
		p1.onEntityChanged(s1, w, e, info)
		p2.onEntityChanged(s2, w, e, info)
	}
	sys.destroyedFn = func(w *World, e Entity) {
		p1.onEntityDestroyed(s1, w, e)
		p2.onEntityDestroyed(s2, w, e)
	}
	return sys
}

// NewSystem3 builds a system from a function taking three parameters.
func NewSystem3[P1, P2, P3 systemParam](name string, fn func(P1, P2, P3)) *System {
	var p1 P1
	var p2 P2
	var p3 P3
	sys := &System{name: name}
	var s1, s2, s3 any

	sys.initFn = func(w *World) {
		deps := NewDependencyMap()
		p1.contributeDependencies(w, deps)
		p2.contributeDependencies(w, deps)
		p3.contributeDependencies(w, deps)
		sys.deps = deps
		sys.exclusive = p1.isExclusive(w) || p2.isExclusive(w) || p3.isExclusive(w)
		s1 = p1.createState(w)
		s2 = p2.createState(w)
		s3 = p3.createState(w)
	}
	sys.runFn = func(w *World) {
		fn(p1.materialize(s1, w).(P1), p2.materialize(s2, w).(P2), p3.materialize(s3, w).(P3))
	}
	sys.changedFn = func(w *World, e Entity, info *EntityInfo) {
		p1.onEntityChanged(s1, w, e, info)
		p2.onEntityChanged(s2, w, e, info)
		p3.onEntityChanged(s3, w, e, info)
	}
	sys.destroyedFn = func(w *World, e Entity) {
		p1.onEntityDestroyed(s1, w, e)
		p2.onEntityDestroyed(s2, w, e)
		p3.onEntityDestroyed(s3, w, e)
	}
	return sys
}

// NewSystem4 builds a system from a function taking four parameters.
func NewSystem4[P1, P2, P3, P4 systemParam](name string, fn func(P1, P2, P3, P4)) *System {
	var p1 P1
	var p2 P2
	var p3 P3
	var p4 P4
	sys := &System{name: name}
	var s1, s2, s3, s4 any

	sys.initFn = func(w *World) {
		deps := NewDependencyMap()
		p1.contributeDependencies(w, deps)
		p2.contributeDependencies(w, deps)
		p3.contributeDependencies(w, deps)
		p4.contributeDependencies(w, deps)
		sys.deps = deps
		sys.exclusive = p1.isExclusive(w) || p2.isExclusive(w) || p3.isExclusive(w) || p4.isExclusive(w)
		s1 = p1.createState(w)
		s2 = p2.createState(w)
		s3 = p3.createState(w)
		s4 = p4.createState(w)
	}
	sys.runFn = func(w *World) {
		fn(p1.materialize(s1, w).(P1), p2.materialize(s2, w).(P2), p3.materialize(s3, w).(P3), p4.materialize(s4, w).(P4))
	}
	sys.changedFn = func(w *World, e Entity, info *EntityInfo) {
		p1.onEntityChanged(s1, w, e, info)
		p2.onEntityChanged(s2, w, e, info)
		p3.onEntityChanged(s3, w, e, info)
		p4.onEntityChanged(s4, w, e, info)
	}
	sys.destroyedFn = func(w *World, e Entity) {
		p1.onEntityDestroyed(s1, w, e)
		p2.onEntityDestroyed(s2, w, e)
		p3.onEntityDestroyed(s3, w, e)
		p4.onEntityDestroyed(s4, w, e)
	}
	return sys
}
