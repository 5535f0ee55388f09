package consumer

import (
	"fmt"
)

// SourceFetchError marks a network or parse failure for one source.
// It is recovered within the cycle: the source is skipped, others
// continue.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %q fetch failed: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// ScoringError marks an inference failure for one item. The item
// stays stored but unscored and is retried on a later cycle.
type ScoringError struct {
	GUID string
	Err  error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring item %q failed: %v", e.GUID, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// StoreError marks a persistence failure. It aborts the remaining
// work of the current cycle; rows already committed stay valid.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %q failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
