package loom

import "reflect"

// storage holds one erased column per ComponentId, addressed by entity
// index, per spec.md §4.5. It never relocates a component when another
// component of the same entity is added or removed — that is what
// distinguishes it from the teacher's packed-table design (which this
// module replaces for the core; see DESIGN.md) — and it never deallocates
// a column for the world's lifetime.
type storage struct {
	columns *SparseSet[ComponentId, *column]
	// highWater is one past the greatest entity index ever registered —
	// every existing column's logical length is kept extended to at least
	// this value.
	highWater uint32
}

func newStorage() *storage {
	return &storage{
		columns: NewSparseSet[ComponentId, *column](),
	}
}

// registerNewEntity extends every existing column's logical length to
// cover the newly allocated index, per spec.md §4.5.
func (s *storage) registerNewEntity(index uint32) {
	if index+1 > s.highWater {
		s.highWater = index + 1
	}
	s.columns.Each(func(_ ComponentId, c *column) {
		c.ensureLength(s.highWater)
	})
}

// columnFor returns the column for id, creating one from t if absent and
// extending it to the current high-water mark.
func (s *storage) columnFor(id ComponentId, t reflect.Type) *column {
	if c, ok := s.columns.Get(id); ok {
		return c
	}
	c := newColumnWithGrowth(t, Config.ColumnGrowth)
	c.ensureLength(s.highWater)
	s.columns.Insert(id, c)
	return c
}

// addComponent writes v at slot index for id without shifting any other
// component of the entity.
func (s *storage) addComponent(id ComponentId, t reflect.Type, index uint32, v reflect.Value) {
	c := s.columnFor(id, t)
	c.writeAt(index, v)
}

// eraseComponent runs the column's destructor shim on slot index and
// leaves the slot logically uninitialized (its proof of liveness lives in
// EntityInfo, not here).
func (s *storage) eraseComponent(id ComponentId, index uint32) {
	if c, ok := s.columns.Get(id); ok {
		c.dropAt(index)
	}
}

func (s *storage) getComponentPtr(id ComponentId, index uint32) (*column, bool) {
	c, ok := s.columns.Get(id)
	if !ok {
		return nil, false
	}
	return c, true
}
