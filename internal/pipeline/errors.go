package pipeline

import "errors"

var (
	// ErrInputOpen reports an input file that could not be read. The affected
	// mode produces no report.
	ErrInputOpen = errors.New("failed to open input")
	// ErrOutputCreate reports a report file that could not be written.
	ErrOutputCreate = errors.New("failed to create report")
	// ErrDegenerateInput marks input with no symbols left after filtering. It
	// is logged as a warning and never returned from Run.
	ErrDegenerateInput = errors.New("no symbols after filtering")
)
