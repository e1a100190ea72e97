package kontxt

import "errors"

// Sentinel errors for the render and transition pipeline. Callers should test
// with errors.Is; messages carry the specifics. BudgetExceeded and
// InvalidPhaseTransition are recoverable conditions; the rest indicate
// programming errors in the caller.
var (
	// ErrUnknownSection is returned when a referenced section does not exist.
	ErrUnknownSection = errors.New("unknown section")

	// ErrInvalidPhase is returned when a phase referenced in render or advance
	// was never configured, or a phase value fails State's enumeration check.
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrInvalidPhaseTransition is returned when a target phase is not in the
	// current phase's transition set, or is rejected by State's own graph.
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")

	// ErrBudgetExceeded is returned when trimming cannot bring the payload
	// under the token ceiling, or the strict re-check fails.
	ErrBudgetExceeded = errors.New("token budget exceeded")

	// ErrUnsupportedFormat is returned for an unknown render format.
	ErrUnsupportedFormat = errors.New("unsupported render format")
)
