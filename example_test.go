package loom_test

import (
	"fmt"

	"github.com/TheBitDrifter/loom"
)

// Position is a simple component for 2D coordinates.
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement.
type Velocity struct {
	X float64
	Y float64
}

// Example_basic shows entity creation, a Write/Read system, and a manual
// update loop.
func Example_basic() {
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

	for i := 0; i < 3; i++ {
		if err := w.Update(); err != nil {
			panic(err)
		}
	}

	pos, _ := loom.GetComponent[Position](w, e)
	fmt.Printf("position after 3 updates: (%.0f, %.0f)\n", pos.X, pos.Y)

	// Output:
	// position after 3 updates: (3, 6)
}

// Example_resources shows a shared resource read by a system alongside a
// query.
func Example_resources() {
	w := loom.NewWorld()

	type Gravity struct{ Y float64 }
	loom.AddResource(w, Gravity{Y: -9.8})

	e := w.NewEntity()
	loom.AddComponent(w, e, Velocity{})

	applyGravity := loom.NewSystem2[*loom.Query1[*Velocity, loom.Write[Velocity]], loom.Res[Gravity]](
		"apply-gravity",
		func(q *loom.Query1[*Velocity, loom.Write[Velocity]], g loom.Res[Gravity]) {
			q.Each(func(_ loom.Entity, vel *Velocity) {
				vel.Y += g.Get().Y
			})
		},
	)
	w.AddSystem(applyGravity)

	if err := w.Update(); err != nil {
		panic(err)
	}

	vel, _ := loom.GetComponent[Velocity](w, e)
	fmt.Printf("velocity.Y after one update: %.1f\n", vel.Y)

	// Output:
	// velocity.Y after one update: -9.8
}

// EntityLabelResource maps string labels to entities, an example/test
// fixture (not a core loom type) for naming a notable entity — e.g. "the
// player" — and recalling it later without re-deriving it from a
// marker-component query every frame.
type EntityLabelResource struct {
	labels map[string]loom.Entity
}

// NewEntityLabelResource returns an empty label table.
func NewEntityLabelResource() EntityLabelResource {
	return EntityLabelResource{labels: make(map[string]loom.Entity)}
}

// Set names e with label, replacing any entity previously under that
// label.
func (r EntityLabelResource) Set(label string, e loom.Entity) {
	r.labels[label] = e
}

// Get returns the entity named label, if any.
func (r EntityLabelResource) Get(label string) (loom.Entity, bool) {
	e, ok := r.labels[label]
	return e, ok
}

// Example_entityLabels shows a resource naming one entity among many so a
// system can single it out without a marker component of its own.
func Example_entityLabels() {
	w := loom.NewWorld()
	loom.AddResource(w, NewEntityLabelResource())

	for i := 0; i < 5; i++ {
		bystander := w.NewEntity()
		loom.AddComponent(w, bystander, Velocity{X: 1, Y: 1})
	}

	player := w.NewEntity()
	loom.AddComponent(w, player, Velocity{X: 2, Y: 3})

	labels, _ := loom.GetResource[EntityLabelResource](w)
	labels.Set("player", player)

	reportPlayer := loom.NewSystem2[
		loom.Res[EntityLabelResource],
		*loom.Query1[*Velocity, loom.Read[Velocity]],
	](
		"report-player",
		func(lbl loom.Res[EntityLabelResource], q *loom.Query1[*Velocity, loom.Read[Velocity]]) {
			target, ok := lbl.Get().Get("player")
			if !ok {
				return
			}
			q.Each(func(e loom.Entity, vel *Velocity) {
				if e != target {
					return
				}
				fmt.Printf("player velocity: (%.0f, %.0f)\n", vel.X, vel.Y)
			})
		},
	)
	w.AddSystem(reportPlayer)

	if err := w.Update(); err != nil {
		panic(err)
	}

	// Output:
	// player velocity: (2, 3)
}
