package orchestrator

import (
	"errors"
	"fmt"
)

// Stage sentinels. Every pipeline failure wraps exactly one of these, so
// callers can identify the failing stage with errors.Is while the
// underlying cause stays reachable through errors.As.
var (
	ErrIO          = errors.New("io error")
	ErrSchema      = errors.New("schema error")
	ErrTemplate    = errors.New("template error")
	ErrCompilation = errors.New("compilation error")
)

// StageError ties a failure to its pipeline stage.
type StageError struct {
	Stage error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

func stageErr(stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
