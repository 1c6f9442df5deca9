package loom

// Config holds process-wide tuning knobs for the runtime, mirroring the
// teacher's package-level var Config config pattern.
var Config config = config{
	ColumnGrowth:    defaultColumnGrowth,
	DebugAssertions: true,
}

type config struct {
	// ColumnGrowth is the number of slots a component column grows by when
	// it runs out of capacity.
	ColumnGrowth uint32

	// MaxWorkers caps how many systems in one layer run concurrently. Zero
	// means "no cap beyond GOMAXPROCS", left to errgroup.SetLimit's default
	// behavior of unlimited.
	MaxWorkers int

	// DebugAssertions enables the §9 "Aliasing discipline" runtime checks
	// (per-column reader/writer counters asserted at layer entry). These
	// exist to catch scheduler bugs during development; a release build
	// would flip this off to avoid the bookkeeping cost.
	DebugAssertions bool
}

// SetColumnGrowth overrides the slot-count increment new component columns
// grow by.
func (c *config) SetColumnGrowth(n uint32) {
	if n == 0 {
		return
	}
	c.ColumnGrowth = n
}

// SetMaxWorkers overrides the per-layer parallel dispatch cap.
func (c *config) SetMaxWorkers(n int) {
	c.MaxWorkers = n
}

// SetDebugAssertions toggles the scheduler's runtime aliasing checks.
func (c *config) SetDebugAssertions(enabled bool) {
	c.DebugAssertions = enabled
}
