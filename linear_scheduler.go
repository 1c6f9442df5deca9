package loom

// LinearScheduler runs every added system sequentially on the calling
// goroutine, in insertion order. It exists as a lightweight fallback for
// tests and tools that don't need the graph scheduler's parallelism,
// mirroring original_source/src/schedule.rs's LinearScheduler variant —
// kept in scope here since it shares System's public construction
// surface and costs nothing extra to support.
type LinearScheduler struct {
	systems []*System
}

func NewLinearScheduler() *LinearScheduler {
	return &LinearScheduler{}
}

// AddSystem appends sys to the run order.
func (s *LinearScheduler) AddSystem(w *World, sys *System) {
	sys.init(w)
	s.systems = append(s.systems, sys)
}

// Execute runs every system once, in insertion order.
func (s *LinearScheduler) Execute(w *World) {
	for _, sys := range s.systems {
		sys.run(w)
	}
}

// OnEntityUpdated fans an entity-changed/destroyed notification out to
// every system, in insertion order.
func (s *LinearScheduler) OnEntityUpdated(w *World, e Entity) {
	info, err := w.entities.info(e)
	if err != nil {
		for _, sys := range s.systems {
			sys.onEntityDestroyed(w, e)
		}
		return
	}
	for _, sys := range s.systems {
		sys.onEntityChanged(w, e, info)
	}
}
