package loom

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// column is a growable, type-erased buffer of values of one runtime type,
// addressed by absolute slot index rather than by position among the live
// elements. It is the core primitive of storage.go's per-component tables
// and resource.go's single-element resource slots.
//
// The technique — a reflect-allocated backing array plus unsafe.Pointer
// arithmetic keyed off reflect.Type.Size()/Align() — is grounded on
// delaneyj-arche's ecs/storage.go Storage type; this is the idiomatic Go
// substitute for spec.md's "size, alignment, destructor function pointer"
// erased vector (see original_source/src/erased_data_vec.rs), since Go has
// no manual Layout/alloc API to mirror directly.
//
// Per spec.md §9's design note: because Go is garbage collected, the
// "destructor shim" a non-GC'd target needs to avoid leaking resources is
// unnecessary for ordinary component values — the runtime's GC reclaims
// them. dropAt instead zeroes the slot so the GC does not keep stale
// pointers reachable through reused slot memory; this is the column's only
// type-specific behavior besides sizing.
type column struct {
	elemType reflect.Type
	itemSize uintptr
	zeroSize bool

	buffer  reflect.Value // addressable [cap]elemType array
	base    unsafe.Pointer
	length  uint32
	cap     uint32
	growBy  uint32

	// readLocks/writeLocked back the §9 "debug-only per-column
	// reader/writer counter" — consulted only when Config.DebugAssertions
	// is on (scheduler_exec.go's beginLayerAssertions). One bit per
	// scheduler node currently holding a read claim, the same
	// AddLock(bit)/RemoveLock(bit)-over-mask.Mask256 idiom the teacher's
	// storage.go uses to track in-flight cursor locks. They catch a
	// scheduler bug that places two conflicting accesses in the same
	// layer; the scheduler's graph construction is what actually
	// guarantees this never happens in a release build.
	readLocks   mask.Mask256
	writeLocked bool
}

const defaultColumnGrowth = 64

func newColumn(t reflect.Type) *column {
	return newColumnWithGrowth(t, defaultColumnGrowth)
}

func newColumnWithGrowth(t reflect.Type, growBy uint32) *column {
	c := &column{
		elemType: t,
		itemSize: t.Size(),
		zeroSize: t.Size() == 0,
		growBy:   growBy,
	}
	if !c.zeroSize {
		c.allocate(growBy)
	}
	return c
}

func (c *column) allocate(capacity uint32) {
	c.buffer = reflect.New(reflect.ArrayOf(int(capacity), c.elemType)).Elem()
	c.base = c.buffer.Addr().UnsafePointer()
	c.cap = capacity
}

// Len reports the column's logical length (the slot high-water mark, not
// the count of "live" components — that proof lives in EntityInfo).
func (c *column) Len() uint32 {
	if c.zeroSize {
		return c.length
	}
	return c.length
}

// Cap reports the current backing capacity. Zero-sized types report
// math.MaxUint32 per spec.md §4.1 ("capacity reported as maximum").
func (c *column) Cap() uint32 {
	if c.zeroSize {
		return math.MaxUint32
	}
	return c.cap
}

// reserveExact grows the column, if needed, so index is addressable.
func (c *column) reserveExact(index uint32) {
	if c.zeroSize {
		return
	}
	if index < c.cap {
		return
	}
	newCap := c.cap
	if newCap == 0 {
		newCap = c.growBy
	}
	for newCap <= index {
		newCap += c.growBy
	}
	old := c.buffer
	c.allocate(newCap)
	reflect.Copy(c.buffer, old)
}

// ensureLength extends the logical length to newLen without initializing
// the newly exposed slots (their bytes are whatever the backing array
// already held — zero, for a freshly grown array).
func (c *column) ensureLength(newLen uint32) {
	if newLen == 0 {
		return
	}
	if !c.zeroSize {
		c.reserveExact(newLen - 1)
	}
	if newLen > c.length {
		c.length = newLen
	}
}

func (c *column) ptrAt(index uint32) unsafe.Pointer {
	if index >= c.length {
		panic(traceErrorf("column access out of bounds: index %d, length %d", index, c.length))
	}
	if c.zeroSize {
		return reflect.New(c.elemType).UnsafePointer()
	}
	return unsafe.Add(c.base, uintptr(index)*c.itemSize)
}

// writeAt stores the bytes of value at slot index without shifting any
// other element. value must be a reflect.Value of the column's elemType.
func (c *column) writeAt(index uint32, value reflect.Value) {
	c.ensureLength(index + 1)
	if c.zeroSize {
		return
	}
	dst := c.ptrAt(index)
	reflect.NewAt(c.elemType, dst).Elem().Set(value)
}

// writeZeroAt stores the type's zero value at slot index.
func (c *column) writeZeroAt(index uint32) {
	c.ensureLength(index + 1)
	if c.zeroSize {
		return
	}
	dst := c.ptrAt(index)
	for i := uintptr(0); i < c.itemSize; i++ {
		*(*byte)(unsafe.Add(dst, i)) = 0
	}
}

// dropAt zeroes the slot's backing bytes. Go's GC reclaims any component
// value normally; this only prevents a stale pointer embedded in the
// component from keeping unrelated memory alive through the reused slot.
func (c *column) dropAt(index uint32) {
	if c.zeroSize || index >= c.length {
		return
	}
	dst := c.ptrAt(index)
	for i := uintptr(0); i < c.itemSize; i++ {
		*(*byte)(unsafe.Add(dst, i)) = 0
	}
}

// removeAt deletes the element at index by shifting every following
// element left by one slot (O(tail)) and shrinking the logical length by
// one. Part of the erased column's contract (spec.md §4.1's
// "remove-at-typed (O(tail))"), grounded on
// original_source/src/erased_data_vec.rs's remove — unlike that
// version's ptr::copy-then-return, storage.go's slot-indexed design
// never calls this (an entity keeps its column index for its lifetime;
// eraseComponent only zeroes a slot in place), so it exists for
// completeness of the contract rather than the hot path.
func (c *column) removeAt(index uint32) {
	if index >= c.length {
		panic(traceErrorf("column removeAt out of bounds: index %d, length %d", index, c.length))
	}
	if c.zeroSize {
		c.length--
		return
	}
	if tail := c.length - index - 1; tail > 0 {
		dst := c.ptrAt(index)
		src := c.ptrAt(index + 1)
		copyBytes(dst, src, uintptr(tail)*c.itemSize)
	}
	c.length--
}

// copyFrom performs a raw byte copy of the element at srcIndex in src into
// destIndex of c. The source half is semantically transferred: the caller
// must not also drop the source slot afterward.
func (c *column) copyFrom(destIndex uint32, src *column, srcIndex uint32) {
	if src.elemType != c.elemType {
		panic(traceErrorf("column copyFrom: type mismatch %s != %s", src.elemType, c.elemType))
	}
	c.ensureLength(destIndex + 1)
	if c.zeroSize {
		return
	}
	dst := c.ptrAt(destIndex)
	source := src.ptrAt(srcIndex)
	copyBytes(dst, source, c.itemSize)
}

// beginRead claims a read lock bit for the holding scheduler node (bit is
// its schedulerNodeId), asserting no writer currently holds the column.
func (c *column) beginRead(bit uint32) {
	if c.writeLocked {
		panic(traceErrorf("debug assertion: read access to a column already claimed for write within the same scheduler layer"))
	}
	c.readLocks.Mark(bit)
}

// endRead releases the read lock bit claimed by beginRead.
func (c *column) endRead(bit uint32) {
	c.readLocks.Unmark(bit)
}

// beginWrite claims the column's single write lock, asserting no read
// lock or other write lock currently holds it.
func (c *column) beginWrite(bit uint32) {
	if c.writeLocked || !c.readLocks.IsEmpty() {
		panic(traceErrorf("debug assertion: write access to a column already claimed for read or write within the same scheduler layer"))
	}
	c.writeLocked = true
}

// endWrite releases the write lock taken by beginWrite.
func (c *column) endWrite(bit uint32) {
	c.writeLocked = false
}

func copyBytes(dst, src unsafe.Pointer, size uintptr) {
	dstSlice := (*[math.MaxInt32]byte)(dst)[:size:size]
	srcSlice := (*[math.MaxInt32]byte)(src)[:size:size]
	copy(dstSlice, srcSlice)
}

// columnValueAt returns an *T view of the slot at index. T must be the
// column's concrete element type — callers reach this only through
// generic wrappers that already proved that via ComponentId.
func columnValueAt[T any](c *column, index uint32) *T {
	return (*T)(c.ptrAt(index))
}

// columnRemoveAt removes and returns the element at index, shifting the
// tail left (column.removeAt) to close the gap.
func columnRemoveAt[T any](c *column, index uint32) T {
	removed := *columnValueAt[T](c, index)
	c.removeAt(index)
	return removed
}

func columnPush[T any](c *column, value T) uint32 {
	idx := c.length
	c.ensureLength(idx + 1)
	if !c.zeroSize {
		*(*T)(c.ptrAt(idx)) = value
	}
	return idx
}
