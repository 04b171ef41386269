package bsa

import "fmt"

// InvalidInputError reports a malformed variant table: a missing column,
// an unparsable cell or mismatched array lengths.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func invalidInputf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// SmoothingError reports a failed LOWESS fit for one chromosome facet.
type SmoothingError struct {
	Chrom     string
	FacetSize int
	Err       error
}

func (e *SmoothingError) Error() string {
	return fmt.Sprintf("smoothing chrom %s (%d variants): %v", e.Chrom, e.FacetSize, e.Err)
}

func (e *SmoothingError) Unwrap() error { return e.Err }

// BootstrapTrialError reports a failed bootstrap trial. A single failed
// trial aborts the whole cutoff estimate; there is no partial recovery.
type BootstrapTrialError struct {
	Trial int
	Err   error
}

func (e *BootstrapTrialError) Error() string {
	return fmt.Sprintf("bootstrap trial %d: %v", e.Trial, e.Err)
}

func (e *BootstrapTrialError) Unwrap() error { return e.Err }
