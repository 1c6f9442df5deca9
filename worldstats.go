package loom

import (
	"reflect"

	"github.com/TheBitDrifter/loom/stats"
)

// Stats snapshots the world's current memory/occupancy profile: entity
// pool utilization, every registered component type, and every
// archetype's membership size — grounded on delaneyj-arche's ecs/stats
// package, adapted to loom's columns-addressed-independently-of-
// archetype storage model (storage.go) rather than arche's
// archetype-owned columns.
func (w *World) Stats() stats.WorldStats {
	types := make([]reflect.Type, len(w.registry.byID))
	copy(types, w.registry.byID)

	archetypes := make([]stats.ArchetypeStats, 0, len(w.archetypes.byID))
	for _, a := range w.archetypes.byID {
		compTypes := make([]reflect.Type, len(a.ids))
		for i, id := range a.ids {
			t, _ := w.registry.typeFor(id)
			compTypes[i] = t
		}
		archetypes = append(archetypes, stats.ArchetypeStats{
			ID:             int(a.id),
			Size:           a.members.Len(),
			Components:     len(a.ids),
			ComponentTypes: compTypes,
		})
	}

	return stats.WorldStats{
		Entities: stats.EntityStats{
			Used:     w.entities.count(),
			Capacity: w.entities.capacityCount(),
			Recycled: w.entities.recycledCount(),
		},
		ComponentCount: len(types),
		ComponentTypes: types,
		Archetypes:     archetypes,
	}
}

// ColumnStats returns per-component occupancy for every column currently
// allocated in storage, in no particular order.
func (w *World) ColumnStats() []stats.ColumnStats {
	out := make([]stats.ColumnStats, 0, w.storage.columns.Len())
	w.storage.columns.Each(func(id ComponentId, c *column) {
		t, _ := w.registry.typeFor(id)
		out = append(out, stats.ColumnStats{
			ComponentID:   uint32(id),
			ComponentType: t,
			Length:        int(c.Len()),
			Capacity:      int(c.Cap()),
		})
	})
	return out
}
