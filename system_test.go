package loom

import "testing"

type systemTestPosition struct{ X, Y float64 }
type systemTestVelocity struct{ X, Y float64 }

func TestNewSystem1RunsAgainstMatchingEntities(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	AddComponent(w, e, systemTestPosition{X: 1, Y: 1})

	var ran bool
	sys := NewSystem1[*Query1[*systemTestPosition, Write[systemTestPosition]]](
		"double-position",
		func(q *Query1[*systemTestPosition, Write[systemTestPosition]]) {
			q.Each(func(_ Entity, p *systemTestPosition) {
				ran = true
				p.X *= 2
				p.Y *= 2
			})
		},
	)
	w.AddSystem(sys)

	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !ran {
		t.Fatalf("system never ran against the matching entity")
	}

	got, _ := GetComponent[systemTestPosition](w, e)
	if got.X != 2 || got.Y != 2 {
		t.Errorf("Position after doubling = %+v, want {2 2}", *got)
	}
}

func TestSystemExclusiveFlagFromParameter(t *testing.T) {
	w := NewWorld()

	sys := NewSystem1[Exclusive]("barrier", func(e Exclusive) {
		_ = e.World()
	})
	sys.init(w)

	if !sys.exclusive {
		t.Errorf("system with an Exclusive parameter did not report exclusive")
	}
}

func TestSystemNonExclusiveFromQueryAndRes(t *testing.T) {
	w := NewWorld()
	AddResource(w, systemTestVelocity{})

	sys := NewSystem2[*Query1[*systemTestPosition, Read[systemTestPosition]], Res[systemTestVelocity]](
		"read-both",
		func(*Query1[*systemTestPosition, Read[systemTestPosition]], Res[systemTestVelocity]) {},
	)
	sys.init(w)

	if sys.exclusive {
		t.Errorf("system built from Query+Res(shared) reported exclusive")
	}
}

func TestSystemOnEntityChangedUpdatesQueryState(t *testing.T) {
	w := NewWorld()

	var matchCount int
	sys := NewSystem1[*Query1[*systemTestPosition, Read[systemTestPosition]]](
		"counter",
		func(q *Query1[*systemTestPosition, Read[systemTestPosition]]) {
			matchCount = 0
			q.Each(func(Entity, *systemTestPosition) { matchCount++ })
		},
	)
	w.AddSystem(sys)

	e := w.NewEntity()
	AddComponent(w, e, systemTestPosition{})

	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if matchCount != 1 {
		t.Errorf("matchCount = %d after adding a matching component, want 1", matchCount)
	}
}
