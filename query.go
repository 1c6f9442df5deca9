package loom

import "github.com/TheBitDrifter/mask"

// FetchTerm is one element of a Query's term list. T is the value handed
// to the query's iteration callback for this term — a *Component for
// Read/Write, or Entity for EntityTerm.
//
// Go has no variadic-tuple generics to mirror original_source/src/query.rs's
// QueryParam macro-generated impls for (A,), (A,B), ... so loom closes the
// set at four terms with explicit Query1..Query4 types, the same numbered-
// arity idiom delaneyj-arche uses for Add/Add2.../Add5 (ecs/generic.go).
type FetchTerm[T any] interface {
	contributeDeps(w *World, deps *DependencyMap)
	canExtract(w *World, e Entity) bool
	extract(w *World, e Entity) T
}

// Read declares read-only access to component type C within a query.
type Read[C any] struct{}

func (Read[C]) contributeDeps(w *World, deps *DependencyMap) {
	deps.add(componentIdFor[C](w), AccessRead)
}

func (Read[C]) canExtract(w *World, e Entity) bool {
	return w.hasComponent(e, componentIdForAssertive[C](w))
}

func (Read[C]) extract(w *World, e Entity) *C {
	return componentPtr[C](w, e, componentIdForAssertive[C](w))
}

// Write declares mutable access to component type C within a query.
type Write[C any] struct{}

func (Write[C]) contributeDeps(w *World, deps *DependencyMap) {
	deps.add(componentIdFor[C](w), AccessWrite)
}

func (Write[C]) canExtract(w *World, e Entity) bool {
	return w.hasComponent(e, componentIdForAssertive[C](w))
}

func (Write[C]) extract(w *World, e Entity) *C {
	return componentPtr[C](w, e, componentIdForAssertive[C](w))
}

// EntityTerm yields the Entity handle itself within a query, contributing
// no dependency — mirrors original_source/src/query.rs's
// impl QueryParam for Entity.
type EntityTerm struct{}

func (EntityTerm) contributeDeps(*World, *DependencyMap) {}
func (EntityTerm) canExtract(*World, Entity) bool         { return true }
func (EntityTerm) extract(_ *World, e Entity) Entity      { return e }

// queryState caches the set of entities currently matching a query's
// component set. Unlike the teacher's query.go (which re-walks the
// archetype graph on every cursor creation), this cache is maintained
// incrementally by onEntityChanged/onEntityDestroyed notifications fired
// by the scheduler on every entity mutation, per spec.md §4.7's
// "maintained by the scheduler" state contract.
type queryState struct {
	required mask.Mask
	entities map[Entity]struct{}
}

func newQueryState(w *World, deps *DependencyMap) *queryState {
	var required mask.Mask
	deps.Each(func(id ComponentId, _ AccessMode) {
		required.Mark(int(id))
	})
	qs := &queryState{required: required, entities: make(map[Entity]struct{})}
	w.entities.each(func(e Entity, info *EntityInfo) {
		if w.archetypeMatches(info.ArchetypeID, qs.required) {
			qs.entities[e] = struct{}{}
		}
	})
	return qs
}

// onEntityChanged re-tests e's archetype against the query's required set
// and inserts or removes it from the cached match set accordingly.
func (q *queryState) onEntityChanged(w *World, e Entity, info *EntityInfo) {
	if w.archetypeMatches(info.ArchetypeID, q.required) {
		q.entities[e] = struct{}{}
	} else {
		delete(q.entities, e)
	}
}

func (q *queryState) onEntityDestroyed(_ *World, e Entity) {
	delete(q.entities, e)
}

// Query1 iterates every entity carrying at least the component(s) term A
// requires.
type Query1[TA any, A FetchTerm[TA]] struct {
	w     *World
	state *queryState
}

func NewQuery1[TA any, A FetchTerm[TA]](w *World) *Query1[TA, A] {
	var a A
	deps := NewDependencyMap()
	a.contributeDeps(w, deps)
	return &Query1[TA, A]{w: w, state: newQueryState(w, deps)}
}

func (q *Query1[TA, A]) Each(fn func(Entity, TA)) {
	var a A
	for e := range q.state.entities {
		if !a.canExtract(q.w, e) {
			continue
		}
		fn(e, a.extract(q.w, e))
	}
}

// Query2 iterates every entity carrying at least the components terms A
// and B require.
type Query2[TA, TB any, A FetchTerm[TA], B FetchTerm[TB]] struct {
	w     *World
	state *queryState
}

func NewQuery2[TA, TB any, A FetchTerm[TA], B FetchTerm[TB]](w *World) *Query2[TA, TB, A, B] {
	var a A
	var b B
	deps := NewDependencyMap()
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	return &Query2[TA, TB, A, B]{w: w, state: newQueryState(w, deps)}
}

func (q *Query2[TA, TB, A, B]) Each(fn func(Entity, TA, TB)) {
	var a A
	var b B
	for e := range q.state.entities {
		if !a.canExtract(q.w, e) || !b.canExtract(q.w, e) {
			continue
		}
		fn(e, a.extract(q.w, e), b.extract(q.w, e))
	}
}

// Query3 iterates every entity carrying at least the components terms A,
// B and C require.
type Query3[TA, TB, TC any, A FetchTerm[TA], B FetchTerm[TB], C FetchTerm[TC]] struct {
	w     *World
	state *queryState
}

func NewQuery3[TA, TB, TC any, A FetchTerm[TA], B FetchTerm[TB], C FetchTerm[TC]](w *World) *Query3[TA, TB, TC, A, B, C] {
	var a A
	var b B
	var c C
	deps := NewDependencyMap()
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	c.contributeDeps(w, deps)
	return &Query3[TA, TB, TC, A, B, C]{w: w, state: newQueryState(w, deps)}
}

func (q *Query3[TA, TB, TC, A, B, C]) Each(fn func(Entity, TA, TB, TC)) {
	var a A
	var b B
	var c C
	for e := range q.state.entities {
		if !a.canExtract(q.w, e) || !b.canExtract(q.w, e) || !c.canExtract(q.w, e) {
			continue
		}
		fn(e, a.extract(q.w, e), b.extract(q.w, e), c.extract(q.w, e))
	}
}

// Query4 iterates every entity carrying at least the components terms A,
// B, C and D require.
type Query4[TA, TB, TC, TD any, A FetchTerm[TA], B FetchTerm[TB], C FetchTerm[TC], D FetchTerm[TD]] struct {
	w     *World
	state *queryState
}

func NewQuery4[TA, TB, TC, TD any, A FetchTerm[TA], B FetchTerm[TB], C FetchTerm[TC], D FetchTerm[TD]](w *World) *Query4[TA, TB, TC, TD, A, B, C, D] {
	var a A
	var b B
	var c C
	var d D
	deps := NewDependencyMap()
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	c.contributeDeps(w, deps)
	d.contributeDeps(w, deps)
	return &Query4[TA, TB, TC, TD, A, B, C, D]{w: w, state: newQueryState(w, deps)}
}

func (q *Query4[TA, TB, TC, TD, A, B, C, D]) Each(fn func(Entity, TA, TB, TC, TD)) {
	var a A
	var b B
	var c C
	var d D
	for e := range q.state.entities {
		if !a.canExtract(q.w, e) || !b.canExtract(q.w, e) || !c.canExtract(q.w, e) || !d.canExtract(q.w, e) {
			continue
		}
		fn(e, a.extract(q.w, e), b.extract(q.w, e), c.extract(q.w, e), d.extract(q.w, e))
	}
}

// The systemParam conformance methods below let Query1..Query4 be passed
// directly as NewSystem1..NewSystem4 type parameters: a zero-valued
// Query1[TA,A]{} is enough to call contributeDeps/createState (they only
// touch the zero-valued term markers embedded in the type), and
// materialize produces the real, usable instance handed to the system
// function.

// contributeDependencies computes this query's own component set in a
// local map (so a term repeated within the query panics regardless of the
// system's other params) and folds it into the system-level deps with
// upgrade-to-Write semantics, so a different param legitimately touching
// the same component in a different mode merges instead of panicking.
func (q *Query1[TA, A]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	var a A
	a.contributeDeps(w, local)
	deps.mergeUpgrading(local)
}
func (q *Query1[TA, A]) createState(w *World) any {
	deps := NewDependencyMap()
	var a A
	a.contributeDeps(w, deps)
	return newQueryState(w, deps)
}
func (q *Query1[TA, A]) onEntityChanged(state any, w *World, e Entity, info *EntityInfo) {
	state.(*queryState).onEntityChanged(w, e, info)
}
func (q *Query1[TA, A]) onEntityDestroyed(state any, w *World, e Entity) {
	state.(*queryState).onEntityDestroyed(w, e)
}
func (q *Query1[TA, A]) isExclusive(*World) bool { return false }
func (q *Query1[TA, A]) materialize(state any, w *World) any {
	return &Query1[TA, A]{w: w, state: state.(*queryState)}
}

func (q *Query2[TA, TB, A, B]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	var a A
	var b B
	a.contributeDeps(w, local)
	b.contributeDeps(w, local)
	deps.mergeUpgrading(local)
}
func (q *Query2[TA, TB, A, B]) createState(w *World) any {
	deps := NewDependencyMap()
	var a A
	var b B
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	return newQueryState(w, deps)
}
func (q *Query2[TA, TB, A, B]) onEntityChanged(state any, w *World, e Entity, info *EntityInfo) {
	state.(*queryState).onEntityChanged(w, e, info)
}
func (q *Query2[TA, TB, A, B]) onEntityDestroyed(state any, w *World, e Entity) {
	state.(*queryState).onEntityDestroyed(w, e)
}
func (q *Query2[TA, TB, A, B]) isExclusive(*World) bool { return false }
func (q *Query2[TA, TB, A, B]) materialize(state any, w *World) any {
	return &Query2[TA, TB, A, B]{w: w, state: state.(*queryState)}
}

func (q *Query3[TA, TB, TC, A, B, C]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	var a A
	var b B
	var c C
	a.contributeDeps(w, local)
	b.contributeDeps(w, local)
	c.contributeDeps(w, local)
	deps.mergeUpgrading(local)
}
func (q *Query3[TA, TB, TC, A, B, C]) createState(w *World) any {
	deps := NewDependencyMap()
	var a A
	var b B
	var c C
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	c.contributeDeps(w, deps)
	return newQueryState(w, deps)
}
func (q *Query3[TA, TB, TC, A, B, C]) onEntityChanged(state any, w *World, e Entity, info *EntityInfo) {
	state.(*queryState).onEntityChanged(w, e, info)
}
func (q *Query3[TA, TB, TC, A, B, C]) onEntityDestroyed(state any, w *World, e Entity) {
	state.(*queryState).onEntityDestroyed(w, e)
}
func (q *Query3[TA, TB, TC, A, B, C]) isExclusive(*World) bool { return false }
func (q *Query3[TA, TB, TC, A, B, C]) materialize(state any, w *World) any {
	return &Query3[TA, TB, TC, A, B, C]{w: w, state: state.(*queryState)}
}

func (q *Query4[TA, TB, TC, TD, A, B, C, D]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	var a A
	var b B
	var c C
	var d D
	a.contributeDeps(w, local)
	b.contributeDeps(w, local)
	c.contributeDeps(w, local)
	d.contributeDeps(w, local)
	deps.mergeUpgrading(local)
}
func (q *Query4[TA, TB, TC, TD, A, B, C, D]) createState(w *World) any {
	deps := NewDependencyMap()
	var a A
	var b B
	var c C
	var d D
	a.contributeDeps(w, deps)
	b.contributeDeps(w, deps)
	c.contributeDeps(w, deps)
	d.contributeDeps(w, deps)
	return newQueryState(w, deps)
}
func (q *Query4[TA, TB, TC, TD, A, B, C, D]) onEntityChanged(state any, w *World, e Entity, info *EntityInfo) {
	state.(*queryState).onEntityChanged(w, e, info)
}
func (q *Query4[TA, TB, TC, TD, A, B, C, D]) onEntityDestroyed(state any, w *World, e Entity) {
	state.(*queryState).onEntityDestroyed(w, e)
}
func (q *Query4[TA, TB, TC, TD, A, B, C, D]) isExclusive(*World) bool { return false }
func (q *Query4[TA, TB, TC, TD, A, B, C, D]) materialize(state any, w *World) any {
	return &Query4[TA, TB, TC, TD, A, B, C, D]{w: w, state: state.(*queryState)}
}
