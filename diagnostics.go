package loom

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"
)

// DumpGraph renders the scheduler's dependency graph in GraphViz DOT,
// per spec.md §6's diagnostic-output requirement: nodes labeled with the
// system's name and its per-component access modes, edges unlabeled
// beyond their endpoints (the transition detail original_source's
// SystemGraphEdge.changes carries is folded into the node label instead,
// since DOT edge labels get noisy fast with wide fan-out).
//
// Grounded on original_source/src/schedule.rs's print_jobs (petgraph::dot::Dot),
// substituting github.com/emicklei/dot as the Go rendering library —
// sourced from the rest of the pack (AKJUS-bsc-erigon's go.mod) since
// neither ECS teacher repo renders diagnostics graphs.
func (s *Scheduler) DumpGraph(w *World) string {
	g := dot.NewGraph(dot.Directed)

	nodes := make([]dot.Node, len(s.nodes))
	for id, n := range s.nodes {
		if n.system == nil {
			nodes[id] = g.Node("ROOT")
			continue
		}
		nodes[id] = g.Node(n.system.name).Label(systemLabel(w, n.system))
	}

	for from, targets := range s.forward {
		for _, to := range targets {
			g.Edge(nodes[from], nodes[int(to)])
		}
	}

	return g.String()
}

func systemLabel(w *World, sys *System) string {
	var b strings.Builder
	b.WriteString(sys.name)
	if sys.exclusive {
		b.WriteString("\\n[exclusive]")
	}
	sys.deps.Each(func(id ComponentId, mode AccessMode) {
		verb := "R"
		if mode == AccessWrite {
			verb = "W"
		}
		fmt.Fprintf(&b, "\\n%s(%s)", verb, w.registry.nameFor(id))
	})
	return b.String()
}
