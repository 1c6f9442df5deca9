package loom

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// StaleEntityError is returned by lookups made against an entity handle
// whose generation no longer matches the live one — the entity was
// destroyed (and possibly its slot re-issued) since the handle was taken.
type StaleEntityError struct {
	Entity Entity
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("entity %v is stale (destroyed or recycled)", e.Entity)
}

// ComponentNotFoundError describes a get against a component the entity
// does not currently carry. GetComponent reports that case as (nil, false);
// no function in this package returns this error.
type ComponentNotFoundError struct {
	Entity Entity
	Type   string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("entity %v has no component %s", e.Entity, e.Type)
}

// ResourceNotFoundError describes a resource lookup against a type that
// was never installed. GetResource reports that case as (nil, false); no
// function in this package returns this error.
type ResourceNotFoundError struct {
	Type string
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %s is not installed", e.Type)
}

// traceErrorf formats a contract-violation message and attaches a stack
// trace via bark, mirroring the teacher's panic(bark.AddTrace(err)) sites
// (entity.go, query.go). These errors are meant to be panicked with
// immediately — they identify a programmer-contract violation, not a
// recoverable condition (spec.md §7).
func traceErrorf(format string, args ...any) error {
	return bark.AddTrace(fmt.Errorf(format, args...))
}
