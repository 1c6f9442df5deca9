package loom

import (
	"fmt"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// ArchetypeId identifies a canonical component-set grouping. It is stable
// for the world's lifetime once assigned — entities migrate between
// archetypes as components are added/removed, but an archetype itself is
// never renumbered.
type ArchetypeId uint32

const invalidArchetypeId ArchetypeId = 0

// archetype records, for one canonical component set, which entities
// currently belong to it. Unlike the teacher's packed table.Table
// archetype (which owns the actual column storage), this archetype is a
// pure membership index: the columns themselves live in storage.go,
// addressed by entity index regardless of archetype, per spec.md §4.6.
type archetype struct {
	id      ArchetypeId
	mask    mask.Mask
	ids     []ComponentId
	members *SparseSet[uint32, struct{}]
}

func newArchetype(id ArchetypeId, m mask.Mask, ids []ComponentId) *archetype {
	return &archetype{
		id:      id,
		mask:    m,
		ids:     append([]ComponentId(nil), ids...),
		members: NewSparseSet[uint32, struct{}](),
	}
}

// matchesAll reports whether this archetype's component set is a superset
// of required — the predicate queries filter archetypes by.
func (a *archetype) matchesAll(required mask.Mask) bool {
	return a.mask.ContainsAll(required)
}

// archetypeManager canonicalizes component sets into ArchetypeIds and
// tracks which entities currently belong to each, grounded on the
// teacher's idsGroupedByMask map[mask.Mask]archetypeID (storage.go) —
// generalized here to a membership-only index instead of an owning table.
type archetypeManager struct {
	byMask   map[mask.Mask]ArchetypeId
	byID     []*archetype
	nextID   ArchetypeId
	ofEntity map[uint32]ArchetypeId
	labels   *SimpleCache[string]
}

func newArchetypeManager() *archetypeManager {
	m := &archetypeManager{
		byMask:   make(map[mask.Mask]ArchetypeId),
		ofEntity: make(map[uint32]ArchetypeId),
		nextID:   invalidArchetypeId + 1,
		labels:   NewSimpleCache[string](4096),
	}
	empty := m.archetypeFor(mask.Mask{}, nil)
	_ = empty
	return m
}

// archetypeFor returns the archetype for the canonical component set
// described by m and ids, creating it on first sight.
func (m *archetypeManager) archetypeFor(msk mask.Mask, ids []ComponentId) *archetype {
	if id, ok := m.byMask[msk]; ok {
		return m.byID[id-1]
	}
	id := m.nextID
	m.nextID++
	arch := newArchetype(id, msk, ids)
	m.byMask[msk] = id
	m.byID = append(m.byID, arch)
	return arch
}

func (m *archetypeManager) get(id ArchetypeId) *archetype {
	return m.byID[id-1]
}

// placeEntity moves index from its current archetype (if any) into the
// archetype for msk/ids, per spec.md §4.6's add/remove-triggers-move rule.
func (m *archetypeManager) placeEntity(index uint32, msk mask.Mask, ids []ComponentId) ArchetypeId {
	if old, ok := m.ofEntity[index]; ok {
		m.byID[old-1].members.Remove(index)
	}
	arch := m.archetypeFor(msk, ids)
	arch.members.Insert(index, struct{}{})
	m.ofEntity[index] = arch.id
	return arch.id
}

// removeEntity drops index from archetype membership entirely, on entity
// destruction.
func (m *archetypeManager) removeEntity(index uint32) {
	if old, ok := m.ofEntity[index]; ok {
		m.byID[old-1].members.Remove(index)
		delete(m.ofEntity, index)
	}
}

// maskFor builds the canonical mask.Mask for a set of component ids.
func maskFor(ids []ComponentId) mask.Mask {
	var m mask.Mask
	for _, id := range ids {
		m.Mark(int(id))
	}
	return m
}

// each invokes fn for every archetype whose component set is a superset
// of required, the membership-match predicate queries rely on (grounded
// on the teacher's query.go MatchesArchetype/ContainsAll pattern).
func (m *archetypeManager) each(required mask.Mask, fn func(*archetype)) {
	for _, arch := range m.byID {
		if arch.matchesAll(required) {
			fn(arch)
		}
	}
}

// debugLabel renders id's component set as a joined list of type names,
// cached by the manager's SimpleCache so repeated diagnostics calls (e.g.
// DumpGraph run every frame in a dev tool) don't re-render it.
func (m *archetypeManager) debugLabel(w *World, id ArchetypeId) string {
	key := fmt.Sprintf("archetype#%d", id)
	if idx, ok := m.labels.GetIndex(key); ok {
		return *m.labels.GetItem(idx)
	}
	arch := m.get(id)
	names := make([]string, len(arch.ids))
	for i, cid := range arch.ids {
		names[i] = w.registry.nameFor(cid)
	}
	label := strings.Join(names, ",")
	if label == "" {
		label = "<empty>"
	}
	m.labels.Register(key, label)
	return label
}
