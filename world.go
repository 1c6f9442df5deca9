package loom

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// World composes every leaf subsystem — the type registry, storage,
// entity allocator, archetype manager, the two resource registries, a
// scheduler and a deferred-command queue — and is the sole argument a
// system ever receives (wrapped in a Query/Res/ResMut/Exclusive
// parameter), per spec.md §2/§4.6.
//
// Grounded on the teacher's api.go Storage/Factory composition, adapted
// from "one owning table" to "registry + storage + archetype index +
// resources + scheduler", since the teacher delegates all of this to the
// external table package this module does not depend on (see DESIGN.md).
type World struct {
	registry   *typeRegistry
	entities   *entityAllocator
	storage    *storage
	archetypes *archetypeManager
	resShared  *resources
	resPinned  *resources
	scheduler  *Scheduler
	commands   *Commands
	log        *zap.Logger
}

// NewWorld constructs an empty world wired to a fresh graph scheduler and
// command queue.
func NewWorld() *World {
	w := &World{
		registry:   newTypeRegistry(),
		entities:   newEntityAllocator(),
		storage:    newStorage(),
		archetypes: newArchetypeManager(),
		resShared:  newResources(false),
		resPinned:  newResources(true),
		scheduler:  NewScheduler(),
		log:        zap.NewNop(),
	}
	w.commands = newCommands(w)
	return w
}

// SetLogger installs a structured logger (the teacher leaves this as a
// package-level var.Config knob; loom threads it through the World so
// multiple worlds in one process can log independently).
func (w *World) SetLogger(l *zap.Logger) { w.log = l }

// NewEntity allocates a fresh entity with no components, registers it
// with storage, and places it in the empty archetype.
func (w *World) NewEntity() Entity {
	e := w.entities.allocate()
	w.storage.registerNewEntity(e.Index)
	info, err := w.entities.info(e)
	if err != nil {
		panic(traceErrorf("NewEntity: freshly allocated entity missing info: %v", err))
	}
	info.ArchetypeID = w.archetypes.placeEntity(e.Index, mask.Mask{}, nil)
	return e
}

// DestroyEntity erases every component the entity carries and releases
// its handle. Per spec.md §4.5, per-component erasure is the world's
// responsibility; storage itself does nothing on whole-entity removal.
func (w *World) DestroyEntity(e Entity) {
	info, err := w.entities.info(e)
	if err != nil {
		panic(traceErrorf("DestroyEntity: %v", err))
	}
	info.Components.Each(func(id ComponentId, _ struct{}) {
		w.storage.eraseComponent(id, e.Index)
	})
	w.archetypes.removeEntity(e.Index)
	w.entities.destroy(e)
	w.scheduler.OnEntityUpdated(w, e)
}

// Contains reports whether e identifies a currently live entity that has
// been placed in the archetype index. A handle from Commands.NewEntity is
// not contained until its spawn command is drained.
func (w *World) Contains(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	_, placed := w.archetypes.ofEntity[e.Index]
	return placed
}

func (w *World) hasComponent(e Entity, id ComponentId) bool {
	info, err := w.entities.info(e)
	if err != nil {
		return false
	}
	return info.hasComponent(id)
}

func (w *World) archetypeMatches(id ArchetypeId, required mask.Mask) bool {
	return w.archetypes.get(id).matchesAll(required)
}

// ArchetypeLabel renders e's current archetype as a joined component-name
// list, for logging/diagnostics.
func (w *World) ArchetypeLabel(e Entity) string {
	info, err := w.entities.info(e)
	if err != nil {
		return "<stale>"
	}
	return w.archetypes.debugLabel(w, info.ArchetypeID)
}

// AddComponent attaches v to e, moving it into the archetype for its
// new, larger component set. Replaces the value if e already carries T.
func AddComponent[T any](w *World, e Entity, v T) {
	info, err := w.entities.info(e)
	if err != nil {
		panic(traceErrorf("AddComponent: %v", err))
	}
	id := componentIdFor[T](w)
	t := reflect.TypeOf(v)
	w.storage.addComponent(id, t, e.Index, reflect.ValueOf(v))

	if !info.hasComponent(id) {
		info.Components.Insert(id, struct{}{})
		ids := info.Components.Keys()
		info.ArchetypeID = w.archetypes.placeEntity(e.Index, maskFor(ids), ids)
	}
	w.scheduler.OnEntityUpdated(w, e)
}

// RemoveComponent detaches T from e, if present, moving it into the
// archetype for its new, smaller component set.
func RemoveComponent[T any](w *World, e Entity) {
	info, err := w.entities.info(e)
	if err != nil {
		panic(traceErrorf("RemoveComponent: %v", err))
	}
	id, ok := w.registry.get(reflect.TypeFor[T]())
	if !ok || !info.hasComponent(id) {
		return
	}
	w.storage.eraseComponent(id, e.Index)
	info.Components.Remove(id)
	ids := info.Components.Keys()
	info.ArchetypeID = w.archetypes.placeEntity(e.Index, maskFor(ids), ids)
	w.scheduler.OnEntityUpdated(w, e)
}

// GetComponent returns a pointer to e's T component, or (nil, false) if e
// doesn't carry one (or is stale) — spec.md §7's "lookup miss" behavior.
func GetComponent[T any](w *World, e Entity) (*T, bool) {
	id, ok := w.registry.get(reflect.TypeFor[T]())
	if !ok || !w.hasComponent(e, id) {
		return nil, false
	}
	return componentPtr[T](w, e, id), true
}

func componentPtr[T any](w *World, e Entity, id ComponentId) *T {
	c, ok := w.storage.getComponentPtr(id, e.Index)
	if !ok {
		panic(traceErrorf("componentPtr: no column for component %d", id))
	}
	return columnValueAt[T](c, e.Index)
}

// AddResource installs or replaces a shareable resource of type T.
func AddResource[T any](w *World, v T) {
	id := componentIdFor[T](w)
	w.resShared.set(id, reflect.TypeOf(v), reflect.ValueOf(v))
}

// AddNonSendResource installs or replaces a pinned resource of type T,
// recording the calling goroutine as its only valid accessor.
func AddNonSendResource[T any](w *World, v T) {
	id := componentIdFor[T](w)
	w.resPinned.set(id, reflect.TypeOf(v), reflect.ValueOf(v))
}

// GetResource returns a pointer to the installed T resource, checking
// both registries (shareable first), or (nil, false) if none is
// installed.
func GetResource[T any](w *World) (*T, bool) {
	id, ok := w.registry.get(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return resourcePtrOk[T](w, id)
}

func resourcePtr[T any](w *World, id ComponentId) *T {
	ptr, ok := resourcePtrOk[T](w, id)
	if !ok {
		panic(traceErrorf("resourcePtr: resource %d not installed", id))
	}
	return ptr
}

func resourcePtrOk[T any](w *World, id ComponentId) (*T, bool) {
	if c, ok := w.resShared.get(id); ok {
		return columnValueAt[T](c, 0), true
	}
	if c, ok := w.resPinned.get(id); ok {
		return columnValueAt[T](c, 0), true
	}
	return nil, false
}

func (w *World) resourceIsPinned(id ComponentId) bool {
	return w.resPinned.has(id)
}

// debugColumnFor returns the column backing a component or resource id,
// checking storage then both resource registries. It exists solely for
// the scheduler's Config.DebugAssertions reader/writer counters
// (scheduler_exec.go) — an id with no column yet (e.g. Exclusive's
// worldMarker) simply has nothing to assert against.
func (w *World) debugColumnFor(id ComponentId) (*column, bool) {
	if c, ok := w.storage.columns.Get(id); ok {
		return c, true
	}
	if c, ok := w.resShared.peek(id); ok {
		return c, true
	}
	if c, ok := w.resPinned.peek(id); ok {
		return c, true
	}
	return nil, false
}

// AddSystem registers sys with the world's graph scheduler.
func (w *World) AddSystem(sys *System) schedulerNodeId {
	return w.scheduler.AddSystem(w, sys)
}

// Update drains the deferred command queue, then runs one pass of the
// scheduler's execution plan.
func (w *World) Update() error {
	w.commands.drain()
	return w.scheduler.Execute(w)
}

// Commands returns the world's deferred-mutation command producer,
// safe to share across goroutines (commands.go).
func (w *World) Commands() *Commands { return w.commands }

// DumpSchedule renders the scheduler's current dependency graph in DOT.
func (w *World) DumpSchedule() string { return w.scheduler.DumpGraph(w) }
