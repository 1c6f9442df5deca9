package loom

import "testing"

type worldTestPosition struct{ X, Y float64 }
type worldTestVelocity struct{ X, Y float64 }
type worldTestA struct{}
type worldTestB struct{}

func TestWorldNewEntityStartsEmpty(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	if !w.Contains(e) {
		t.Fatalf("fresh entity not reported as contained")
	}
	if w.hasComponent(e, ComponentId(1)) {
		t.Errorf("fresh entity reports a component it was never given")
	}
}

func TestWorldAddRemoveComponentMigratesArchetype(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	AddComponent(w, e, worldTestPosition{X: 1, Y: 2})
	if _, ok := GetComponent[worldTestPosition](w, e); !ok {
		t.Fatalf("GetComponent found nothing right after AddComponent")
	}

	RemoveComponent[worldTestPosition](w, e)
	if _, ok := GetComponent[worldTestPosition](w, e); ok {
		t.Errorf("GetComponent still found the component after RemoveComponent")
	}
}

func TestWorldDestroyEntityErasesComponentsAndFreesHandle(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	AddComponent(w, e, worldTestPosition{X: 1})

	w.DestroyEntity(e)

	if w.Contains(e) {
		t.Errorf("destroyed entity still reported contained")
	}
}

func TestWorldGetComponentOnStaleEntity(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	AddComponent(w, e, worldTestPosition{})
	w.DestroyEntity(e)

	if _, ok := GetComponent[worldTestPosition](w, e); ok {
		t.Errorf("GetComponent found a value through a stale handle")
	}
}

// Scenario E — entity lifecycle: 1000 entities, Position/Velocity, 100
// update iterations; position should equal velocity*100 componentwise.
func TestWorldEntityLifecycleScenarioE(t *testing.T) {
	const entityCount = 1000
	const iterations = 100

	w := NewWorld()
	entities := make([]Entity, entityCount)
	for i := range entities {
		e := w.NewEntity()
		AddComponent(w, e, worldTestPosition{})
		AddComponent(w, e, worldTestVelocity{X: 1, Y: 2})
		entities[i] = e
	}

	move := NewSystem1[*Query2[*worldTestPosition, *worldTestVelocity, Write[worldTestPosition], Read[worldTestVelocity]]](
		"move",
		func(q *Query2[*worldTestPosition, *worldTestVelocity, Write[worldTestPosition], Read[worldTestVelocity]]) {
			q.Each(func(_ Entity, pos *worldTestPosition, vel *worldTestVelocity) {
				pos.X += vel.X
				pos.Y += vel.Y
			})
		},
	)
	w.AddSystem(move)

	for i := 0; i < iterations; i++ {
		if err := w.Update(); err != nil {
			t.Fatalf("Update() error at iteration %d: %v", i, err)
		}
	}

	got, ok := GetComponent[worldTestPosition](w, entities[0])
	if !ok {
		t.Fatalf("GetComponent found nothing for the first entity after the run")
	}
	if got.X != 100 || got.Y != 200 {
		t.Errorf("Position after %d iterations = %+v, want {100 200}", iterations, *got)
	}
}

// Scenario F — query membership updates: an entity's visibility to a
// Read<A>,Read<B> query tracks its archetype across every mutation.
func TestWorldQueryMembershipScenarioF(t *testing.T) {
	w := NewWorld()

	var seen map[Entity]bool
	observe := NewSystem1[*Query2[*worldTestA, *worldTestB, Read[worldTestA], Read[worldTestB]]](
		"observe",
		func(q *Query2[*worldTestA, *worldTestB, Read[worldTestA], Read[worldTestB]]) {
			seen = make(map[Entity]bool)
			q.Each(func(e Entity, _ *worldTestA, _ *worldTestB) { seen[e] = true })
		},
	)
	w.AddSystem(observe)

	e := w.NewEntity()
	AddComponent(w, e, worldTestA{})
	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if seen[e] {
		t.Errorf("entity with only A matched a (Read<A>,Read<B>) query")
	}

	AddComponent(w, e, worldTestB{})
	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !seen[e] {
		t.Errorf("entity with A and B did not match a (Read<A>,Read<B>) query")
	}

	RemoveComponent[worldTestA](w, e)
	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if seen[e] {
		t.Errorf("entity missing A still matched a (Read<A>,Read<B>) query")
	}

	AddComponent(w, e, worldTestA{})
	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	w.DestroyEntity(e)
	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if seen[e] {
		t.Errorf("destroyed entity still matched a (Read<A>,Read<B>) query")
	}
}
