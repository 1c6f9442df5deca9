package loom

import "testing"

type worldStatsTestPosition struct{ X, Y float64 }
type worldStatsTestVelocity struct{ X, Y float64 }

func TestWorldStatsReportsEntitiesAndArchetypes(t *testing.T) {
	w := NewWorld()

	e1 := w.NewEntity()
	AddComponent(w, e1, worldStatsTestPosition{})

	e2 := w.NewEntity()
	AddComponent(w, e2, worldStatsTestPosition{})
	AddComponent(w, e2, worldStatsTestVelocity{})

	s := w.Stats()

	if s.Entities.Used != 2 {
		t.Errorf("Entities.Used = %d, want 2", s.Entities.Used)
	}
	if s.ComponentCount != 2 {
		t.Errorf("ComponentCount = %d, want 2", s.ComponentCount)
	}
	// empty archetype + {Position} + {Position,Velocity}
	if len(s.Archetypes) != 3 {
		t.Errorf("len(Archetypes) = %d, want 3", len(s.Archetypes))
	}

	var sawSingleton, sawPair bool
	for _, a := range s.Archetypes {
		switch a.Components {
		case 1:
			sawSingleton = a.Size == 1
		case 2:
			sawPair = a.Size == 1
		}
	}
	if !sawSingleton {
		t.Errorf("expected a one-component archetype with one member")
	}
	if !sawPair {
		t.Errorf("expected a two-component archetype with one member")
	}
}

func TestWorldStatsEntitiesRecycledAfterDestroy(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	w.DestroyEntity(e)

	s := w.Stats()
	if s.Entities.Used != 0 {
		t.Errorf("Entities.Used = %d, want 0", s.Entities.Used)
	}
	if s.Entities.Recycled != 1 {
		t.Errorf("Entities.Recycled = %d, want 1", s.Entities.Recycled)
	}
	if s.Entities.Capacity != 1 {
		t.Errorf("Entities.Capacity = %d, want 1", s.Entities.Capacity)
	}
}

func TestWorldColumnStatsReportsLengthAndCapacity(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	AddComponent(w, e, worldStatsTestPosition{})

	cols := w.ColumnStats()
	if len(cols) != 1 {
		t.Fatalf("len(ColumnStats()) = %d, want 1", len(cols))
	}
	if cols[0].Length == 0 {
		t.Errorf("ColumnStats()[0].Length = 0, want > 0")
	}
	if cols[0].Capacity == 0 {
		t.Errorf("ColumnStats()[0].Capacity = 0, want > 0")
	}
}
