package loom

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Execute runs one pass of the cached execution plan: each layer's
// systems run to completion before the next layer starts (fork-join),
// per spec.md §4.9. Within a layer, systems run concurrently via
// golang.org/x/sync/errgroup — substituting for
// original_source/src/schedule.rs's rayon par_iter, since the corpus's
// concurrency idiom (erigon, via AKJUS-bsc-erigon's go.mod) is errgroup
// rather than a data-parallel iterator library.
//
// A layer containing an exclusive system (by construction, at most one,
// and alone in its layer — spec.md §5) runs inline on the calling
// goroutine instead of being dispatched to the pool: this is what lets a
// pinned-resource access inside that system see itself as "the thread
// that created the resource" without any OS-thread-pinning machinery
// (see resource.go's goroutineID-based check).
func (s *Scheduler) Execute(w *World) error {
	for _, layer := range s.layers() {
		if len(layer) == 1 && s.nodes[layer[0]].system != nil && s.nodes[layer[0]].system.exclusive {
			s.nodes[layer[0]].system.run(w)
			continue
		}

		releaseAssertions := s.beginLayerAssertions(w, layer)

		var g errgroup.Group
		if Config.MaxWorkers > 0 {
			g.SetLimit(Config.MaxWorkers)
		}

		// errgroup.Group.Go does not catch panics — left alone, a panicking
		// system would take down every other goroutine in the layer mid-run
		// instead of letting them finish, contradicting spec.md §4.9's
		// "remaining systems in the layer still complete" failure
		// semantics. Each system's goroutine recovers its own panic, records
		// the first one seen, and the layer re-panics with it only after
		// g.Wait() confirms every sibling has joined — mirroring how rayon's
		// par_iter (the Rust original's scheduler primitive) catches and
		// re-raises a task panic without aborting sibling tasks.
		var panicMu sync.Mutex
		var firstPanic any

		for _, nodeID := range layer {
			sys := s.nodes[nodeID].system
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						panicMu.Lock()
						if firstPanic == nil {
							firstPanic = r
						}
						panicMu.Unlock()
					}
				}()
				sys.run(w)
				return nil
			})
		}
		err := g.Wait()
		for _, release := range releaseAssertions {
			release()
		}
		if err != nil {
			return err
		}
		if firstPanic != nil {
			panic(firstPanic)
		}
	}
	return nil
}

// beginLayerAssertions claims each system's declared components on their
// backing columns' debug reader/writer counters, per spec.md §9's
// "Aliasing discipline in the absence of borrow-checking": a release
// build (Config.DebugAssertions off) skips this entirely, since the
// scheduler's graph construction is what actually guarantees a layer
// never places two conflicting accesses together — this only exists to
// catch a bug in that construction during development. The returned
// funcs release every claim taken; the caller runs them all once the
// layer has joined, panic or not.
func (s *Scheduler) beginLayerAssertions(w *World, layer []schedulerNodeId) []func() {
	if !Config.DebugAssertions {
		return nil
	}
	var releases []func()
	for _, nodeID := range layer {
		bit := uint32(nodeID)
		deps := s.nodes[nodeID].deps
		if deps == nil {
			continue
		}
		deps.Each(func(id ComponentId, mode AccessMode) {
			c, ok := w.debugColumnFor(id)
			if !ok {
				return
			}
			switch mode {
			case AccessWrite:
				c.beginWrite(bit)
				releases = append(releases, func() { c.endWrite(bit) })
			case AccessRead:
				c.beginRead(bit)
				releases = append(releases, func() { c.endRead(bit) })
			}
		})
	}
	return releases
}

// OnEntityUpdated fans an entity-changed (or, if the entity is no longer
// alive, entity-destroyed) notification out to every system's
// parameters, per spec.md §4.9's "notifying systems of entity changes".
// The external command-queue collaborator calls this after draining
// structural mutations and before the next Execute.
func (s *Scheduler) OnEntityUpdated(w *World, e Entity) {
	info, err := w.entities.info(e)
	if err != nil {
		for _, node := range s.nodes[1:] {
			node.system.onEntityDestroyed(w, e)
		}
		return
	}
	for _, node := range s.nodes[1:] {
		node.system.onEntityChanged(w, e, info)
	}
}
