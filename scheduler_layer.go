package loom

// computeLayers runs Kahn's-algorithm waves over the graph: layer 0 is
// ROOT, layer i+1 is every node whose in-edges are all satisfied by
// layers ≤ i and that hasn't been placed yet. Grounded directly on
// original_source/src/schedule.rs's compute_schedule.
func (s *Scheduler) computeLayers() [][]schedulerNodeId {
	scheduled := make(map[schedulerNodeId]bool)
	scheduled[rootNodeId] = true

	current := make(map[schedulerNodeId]struct{})
	for _, to := range s.forward[rootNodeId] {
		current[to] = struct{}{}
	}

	var layers [][]schedulerNodeId
	for len(current) > 0 {
		next := make(map[schedulerNodeId]struct{})
		var layer []schedulerNodeId

		for job := range current {
			allParentsScheduled := true
			for _, parent := range s.backward[job] {
				if !scheduled[parent] {
					allParentsScheduled = false
					break
				}
			}
			if !allParentsScheduled {
				continue
			}
			for _, to := range s.forward[job] {
				next[to] = struct{}{}
			}
			layer = append(layer, job)
		}

		for _, job := range layer {
			scheduled[job] = true
		}
		if len(layer) > 0 {
			layers = append(layers, layer)
		}
		current = next
	}
	return layers
}

// layers returns the cached execution plan, recomputing it if any system
// was added since the last call.
func (s *Scheduler) layers() [][]schedulerNodeId {
	if s.changedSchedule {
		s.cachedLayers = s.computeLayers()
		s.changedSchedule = false
	}
	return s.cachedLayers
}
