package loom

import (
	"reflect"
	"sync"
)

// typeRegistry assigns a dense ComponentId to each distinct runtime
// component type on first sight. It is owned by the World and never
// shrinks: ids handed out once are stable for the world's lifetime.
//
// getOrCreate is safe to call concurrently — command producers running on
// other goroutines may need to resolve a type to an id before a command is
// drained — so it is guarded by a mutex rather than left to the single
// scheduler goroutine.
type typeRegistry struct {
	mu      sync.Mutex
	nextID  ComponentId
	byType  map[reflect.Type]ComponentId
	byID    []reflect.Type
	typeOf  map[ComponentId]reflect.Type
	names   map[ComponentId]string
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		nextID: invalidComponentId + 1,
		byType: make(map[reflect.Type]ComponentId),
		typeOf: make(map[ComponentId]reflect.Type),
		names:  make(map[ComponentId]string),
	}
}

func (r *typeRegistry) getOrCreate(t reflect.Type) ComponentId {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := r.nextID
	r.nextID++
	r.byType[t] = id
	r.byID = append(r.byID, t)
	r.typeOf[id] = t
	r.names[id] = t.String()
	return id
}

// get returns the id assigned to t, if any, without creating one.
func (r *typeRegistry) get(t reflect.Type) (ComponentId, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byType[t]
	return id, ok
}

// getAssertive returns the id assigned to t, terminating the process if t
// was never registered — used at sites where reaching here without a prior
// registration is a programmer-contract violation.
func (r *typeRegistry) getAssertive(t reflect.Type) ComponentId {
	id, ok := r.get(t)
	if !ok {
		panic(traceErrorf("component type %s was never registered", t))
	}
	return id
}

func (r *typeRegistry) typeFor(id ComponentId) (reflect.Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.typeOf[id]
	return t, ok
}

func (r *typeRegistry) nameFor(id ComponentId) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.names[id]; ok {
		return n
	}
	return "<unknown component>"
}

func componentIdFor[T any](w *World) ComponentId {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeFor[T]()
	}
	return w.registry.getOrCreate(t)
}

func componentIdForAssertive[T any](w *World) ComponentId {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeFor[T]()
	}
	return w.registry.getAssertive(t)
}
