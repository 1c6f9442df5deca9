/*
Package loom provides an in-process Entity-Component-System (ECS)
runtime: type-erased component storage addressed by entity, an archetype
index for fast query matching, and a dependency-graph scheduler that
parallelizes systems whose component and resource access don't conflict.

Core Concepts:

  - Entity: an (index, generation) handle identifying a bundle of components.
  - Component: an opaque, typed value stored in a columnar arena.
  - Archetype: the canonical component-set grouping a set of entities share.
  - Query: a system parameter yielding component references for every
    entity whose archetype is a superset of the query's required set.
  - System: a function taking Query/Res/ResMut/Exclusive parameters,
    scheduled to run in parallel with any other system it provably does
    not conflict with.

Basic Usage:

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	w := loom.NewWorld()

	e := w.NewEntity()
	loom.AddComponent(w, e, Position{})
	loom.AddComponent(w, e, Velocity{X: 1, Y: 2})

	move := loom.NewSystem1[*loom.Query2[*Position, *Velocity, loom.Write[Position], loom.Read[Velocity]]](
		"move",
		func(q *loom.Query2[*Position, *Velocity, loom.Write[Position], loom.Read[Velocity]]) {
			q.Each(func(_ loom.Entity, pos *Position, vel *Velocity) {
				pos.X += vel.X
				pos.Y += vel.Y
			})
		},
	)
	w.AddSystem(move)

	if err := w.Update(); err != nil {
		panic(err)
	}

loom is built around the same three leaf-to-root dependency chain on
every level: a reflect-backed erased column underpins both component
storage and resources; a sparse set underpins per-entity component sets,
storage's component table, and archetype membership; and the scheduler's
graph build is the only place concurrency is reasoned about explicitly —
everything above it just declares what it touches.
*/
package loom
