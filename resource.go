package loom

import (
	"bytes"
	"reflect"
	"runtime"
	"strconv"
)

// resourceSlot is a column of exactly one element, the storage primitive
// spec.md §4.8 calls for — built on the same erased column as a component
// table rather than a bespoke boxed-any, grounded on
// original_source/src/resources.rs's Resource<SEND> wrapping an ErasedVec.
type resourceSlot struct {
	col      *column
	ownerGID int64 // only meaningful when the slot lives in the pinned registry
}

// resources is one of the two side-by-side registries spec.md §4.8
// describes: shareable (safe from any goroutine, guarded only by the
// scheduler's access discipline) or pinned (checked against the creating
// goroutine on every access).
type resources struct {
	pinned bool
	slots  map[ComponentId]*resourceSlot
}

func newResources(pinned bool) *resources {
	return &resources{
		pinned: pinned,
		slots:  make(map[ComponentId]*resourceSlot),
	}
}

// set installs or replaces the resource identified by id. A replace drops
// (zeroes) the previous value before writing the new one, per spec.md
// §4.8's "add-or-replace runs the old destructor before writing".
func (r *resources) set(id ComponentId, t reflect.Type, v reflect.Value) {
	slot, ok := r.slots[id]
	if !ok {
		slot = &resourceSlot{col: newColumn(t)}
		if r.pinned {
			slot.ownerGID = goroutineID()
		}
		r.slots[id] = slot
	} else {
		slot.col.dropAt(0)
	}
	slot.col.writeAt(0, v)
}

// get returns the column backing id's slot, checking thread affinity for
// a pinned registry. It panics on a cross-goroutine access to a pinned
// resource, per spec.md §4.8 ("mismatch terminates with a diagnostic").
func (r *resources) get(id ComponentId) (*column, bool) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, false
	}
	if r.pinned {
		if gid := goroutineID(); gid != slot.ownerGID {
			panic(traceErrorf("non-shareable resource accessed from goroutine %d, owned by %d", gid, slot.ownerGID))
		}
	}
	return slot.col, true
}

func (r *resources) has(id ComponentId) bool {
	_, ok := r.slots[id]
	return ok
}

// peek returns the column backing id's slot without the pinned-registry
// goroutine-affinity check get performs — used only by the scheduler's
// Config.DebugAssertions reader/writer counters (scheduler_exec.go),
// which inspect the slot from the scheduling goroutine rather than
// materializing an access to it.
func (r *resources) peek(id ComponentId) (*column, bool) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, false
	}
	return slot.col, true
}

// Res is a read-only handle to a shared or pinned resource, obtained via
// GetResource/world parameter materialization.
type Res[T any] struct {
	ptr *T
}

// Get returns the resource's current value.
func (r Res[T]) Get() *T { return r.ptr }

// ResMut is a mutable handle to a shared or pinned resource. Per spec.md
// §4.9's Open Question, a ResMut on a pinned resource forces its owning
// system exclusive, same as ResMut on any resource forces Write in the
// dependency graph (see dependency.go).
type ResMut[T any] struct {
	ptr *T
}

func (r ResMut[T]) Get() *T { return r.ptr }
func (r ResMut[T]) Set(v T) { *r.ptr = v }

// Res/ResMut conform to systemParam (system.go) so they can be passed
// directly as NewSystem1..NewSystem4 type parameters alongside queries.

func (Res[T]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	local.add(componentIdFor[T](w), AccessRead)
	deps.mergeUpgrading(local)
}
func (Res[T]) createState(*World) any { return nil }
func (Res[T]) onEntityChanged(any, *World, Entity, *EntityInfo) {}
func (Res[T]) onEntityDestroyed(any, *World, Entity)            {}
func (Res[T]) isExclusive(w *World) bool {
	return w.resourceIsPinned(componentIdForAssertive[T](w))
}
func (Res[T]) materialize(_ any, w *World) any {
	return Res[T]{ptr: resourcePtr[T](w, componentIdForAssertive[T](w))}
}

func (ResMut[T]) contributeDependencies(w *World, deps *DependencyMap) {
	local := NewDependencyMap()
	local.add(componentIdFor[T](w), AccessWrite)
	deps.mergeUpgrading(local)
}
func (ResMut[T]) createState(*World) any { return nil }
func (ResMut[T]) onEntityChanged(any, *World, Entity, *EntityInfo) {}
func (ResMut[T]) onEntityDestroyed(any, *World, Entity)            {}
func (ResMut[T]) isExclusive(w *World) bool {
	return w.resourceIsPinned(componentIdForAssertive[T](w))
}
func (ResMut[T]) materialize(_ any, w *World) any {
	return ResMut[T]{ptr: resourcePtr[T](w, componentIdForAssertive[T](w))}
}

// goroutineID extracts the calling goroutine's numeric id by parsing the
// header line of its own stack trace. There is no exported API for this
// in the standard library and nothing in the corpus wraps one either —
// this is a small, self-contained exception to "never stdlib where the
// corpus shows a library" (see DESIGN.md): no third-party dependency in
// the pack offers goroutine-identity introspection.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[:n]
	const prefix = "goroutine "
	if i := bytes.Index(line, []byte(prefix)); i >= 0 {
		line = line[i+len(prefix):]
	}
	if sp := bytes.IndexByte(line, ' '); sp >= 0 {
		line = line[:sp]
	}
	id, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
