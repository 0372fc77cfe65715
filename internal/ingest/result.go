// Package ingest orchestrates the per-unit pipeline (read, normalize, dedupe,
// write) and the bounded fan-out over independent work units.
package ingest

import "fmt"

// Outcome is a unit's terminal state.
type Outcome string

const (
	OutcomeDone   Outcome = "done"
	OutcomeFailed Outcome = "failed"
)

// FailureKind tags the reason a unit failed. Failures never cross unit
// boundaries: a failed unit does not affect its siblings or the scheduler.
type FailureKind string

const (
	// FailFetch covers unreachable or malformed sources at the transport level.
	FailFetch FailureKind = "fetch_error"

	// FailMissingColumns is a schema mismatch on a CSV export. The unit writes
	// zero rows; it is logged as a warning, not treated as fatal.
	FailMissingColumns FailureKind = "missing_columns"

	// FailWrite covers store rejections. Previously committed batches from the
	// same unit remain committed; retrying the unit is safe by key.
	FailWrite FailureKind = "write_error"

	// FailUnexpected catches everything else at the unit boundary.
	FailUnexpected FailureKind = "unexpected_error"
)

// UnitError is the typed failure captured at a unit's terminal state.
type UnitError struct {
	Unit string
	Kind FailureKind
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %s: %s: %v", e.Unit, e.Kind, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// UnitResult summarizes one unit's terminal state. Exactly one result is
// emitted per unit.
type UnitResult struct {
	Unit    string
	Outcome Outcome
	Rows    int64
	Err     *UnitError
}

func failed(unit string, kind FailureKind, err error) UnitResult {
	return UnitResult{
		Unit:    unit,
		Outcome: OutcomeFailed,
		Err:     &UnitError{Unit: unit, Kind: kind, Err: err},
	}
}
