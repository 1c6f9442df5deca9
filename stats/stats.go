// Package stats provides read-only occupancy snapshots of a loom World,
// for diagnostics and tests. It has no dependency on the loom package
// itself — loom's World.Stats/World.ColumnStats (worldstats.go) populate
// these structs from its own internal state, the same direction
// delaneyj-arche's ecs package populates its ecs/stats package.
package stats

import (
	"fmt"
	"reflect"
	"strings"
)

// EntityStats summarizes the entity allocator's occupancy: how many
// handles are currently live, how many indices have ever been handed
// out, and how many are sitting on the free list awaiting reuse.
type EntityStats struct {
	Used     int
	Capacity int
	Recycled int
}

// String renders a one-line human-readable summary.
func (s EntityStats) String() string {
	return fmt.Sprintf("Entities -- Used: %d, Recycled: %d, Capacity: %d", s.Used, s.Recycled, s.Capacity)
}

// ArchetypeStats summarizes one archetype's membership and component
// set.
type ArchetypeStats struct {
	ID             int
	Size           int
	Components     int
	ComponentTypes []reflect.Type
}

// String renders a one-line human-readable summary.
func (s ArchetypeStats) String() string {
	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.String()
	}
	return fmt.Sprintf("Archetype #%d -- Entities: %d, Components: %d [%s]",
		s.ID, s.Size, s.Components, strings.Join(names, ", "))
}

// ColumnStats summarizes one component column's occupancy. Unlike
// delaneyj-arche, where a column lives inside exactly one archetype,
// loom's columns are addressed by ComponentId independently of
// archetype membership, so this has no arche equivalent.
type ColumnStats struct {
	ComponentID   uint32
	ComponentType reflect.Type
	Length        int
	Capacity      int
}

// String renders a one-line human-readable summary.
func (s ColumnStats) String() string {
	return fmt.Sprintf("Column[%s] -- Length: %d, Capacity: %d", s.ComponentType, s.Length, s.Capacity)
}

// WorldStats is a full snapshot of a World's memory/occupancy profile,
// grounded on delaneyj-arche's ecs/stats.WorldStats.
type WorldStats struct {
	Entities       EntityStats
	ComponentCount int
	ComponentTypes []reflect.Type
	Archetypes     []ArchetypeStats
}

// String renders a multi-line human-readable report.
func (s WorldStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "World -- Components: %d, Archetypes: %d\n", s.ComponentCount, len(s.Archetypes))

	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.String()
	}
	fmt.Fprintf(&b, "  Components: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "  %s\n", s.Entities.String())
	for _, a := range s.Archetypes {
		fmt.Fprintf(&b, "  %s\n", a.String())
	}
	return b.String()
}
