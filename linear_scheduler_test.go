package loom

import "testing"

type linearTestMarker struct{}

func TestLinearSchedulerRunsInInsertionOrder(t *testing.T) {
	w := NewWorld()
	ls := NewLinearScheduler()

	var order []string
	first := NewSystem1[Exclusive]("first", func(Exclusive) { order = append(order, "first") })
	second := NewSystem1[Exclusive]("second", func(Exclusive) { order = append(order, "second") })

	ls.AddSystem(w, first)
	ls.AddSystem(w, second)
	ls.Execute(w)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("execution order = %v, want [first second]", order)
	}
}

func TestLinearSchedulerOnEntityUpdatedNotifiesAllSystems(t *testing.T) {
	w := NewWorld()
	ls := NewLinearScheduler()

	var matched int
	sys := NewSystem1[*Query1[*linearTestMarker, Read[linearTestMarker]]](
		"counter",
		func(q *Query1[*linearTestMarker, Read[linearTestMarker]]) {
			matched = 0
			q.Each(func(Entity, *linearTestMarker) { matched++ })
		},
	)
	ls.AddSystem(w, sys)

	e := w.NewEntity()
	AddComponent(w, e, linearTestMarker{})
	ls.OnEntityUpdated(w, e)

	ls.Execute(w)
	if matched != 1 {
		t.Errorf("matched = %d after adding a matching component, want 1", matched)
	}

	w.DestroyEntity(e)
	ls.OnEntityUpdated(w, e)
	ls.Execute(w)
	if matched != 0 {
		t.Errorf("matched = %d after destroying the entity, want 0", matched)
	}
}
