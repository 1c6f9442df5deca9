package loom

import (
	"sync"
	"testing"
)

type commandsTestTag struct{}

func TestCommandsNewEntityIsUsableBeforeDrain(t *testing.T) {
	w := NewWorld()
	cmds := w.Commands()

	e := cmds.NewEntity()
	if !e.Valid() {
		t.Fatalf("Commands.NewEntity() returned an invalid handle")
	}
	if w.Contains(e) {
		t.Errorf("entity already contained before the command queue was drained")
	}

	cmds.drain()
	if !w.Contains(e) {
		t.Errorf("entity not contained after drain")
	}
}

func TestCommandsDestroyDeferred(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	w.Commands().Destroy(e)
	if !w.Contains(e) {
		t.Errorf("entity destroyed before drain")
	}

	w.Commands().drain()
	if w.Contains(e) {
		t.Errorf("entity still contained after a drained Destroy command")
	}
}

func TestCommandsAddComponentDeferred(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	AddComponentDeferred(w.Commands(), e, commandsTestTag{})
	if _, ok := GetComponent[commandsTestTag](w, e); ok {
		t.Errorf("deferred component visible before drain")
	}

	w.Commands().drain()
	if _, ok := GetComponent[commandsTestTag](w, e); !ok {
		t.Errorf("deferred component missing after drain")
	}
}

func TestCommandsRemoveComponentDeferred(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	AddComponent(w, e, commandsTestTag{})

	RemoveComponentDeferred[commandsTestTag](w.Commands(), e)
	w.Commands().drain()

	if _, ok := GetComponent[commandsTestTag](w, e); ok {
		t.Errorf("component still present after a drained removal command")
	}
}

func TestCommandsUpdateDrainsBeforeExecute(t *testing.T) {
	w := NewWorld()

	var matched int
	sys := NewSystem1[*Query1[*commandsTestTag, Read[commandsTestTag]]](
		"counter",
		func(q *Query1[*commandsTestTag, Read[commandsTestTag]]) {
			matched = 0
			q.Each(func(Entity, *commandsTestTag) { matched++ })
		},
	)
	w.AddSystem(sys)

	e := w.Commands().NewEntity()
	AddComponentDeferred(w.Commands(), e, commandsTestTag{})

	if err := w.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d after Update drained the queue, want 1", matched)
	}
}

func TestCommandsConcurrentSendIsSafe(t *testing.T) {
	w := NewWorld()
	cmds := w.Commands()

	var wg sync.WaitGroup
	const producers = 16
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			cmds.NewEntity()
		}()
	}
	wg.Wait()
	cmds.drain()

	if got := w.entities.count(); got != producers {
		t.Errorf("entity count = %d after concurrent NewEntity calls, want %d", got, producers)
	}
}
