package domain

import (
	"errors"
	"fmt"
)

// Run stages used to label fatal errors in logs and error reports.
const (
	StageConfiguration = "configuration"
	StageAcquisition   = "acquisition"
	StageRequest       = "request"
)

var (
	ErrMissingCredentials = errors.New("login credentials not configured")
	ErrTokenNotCaptured   = errors.New("bearer token not captured before timeout")
)

// RunError is a fatal error tagged with the stage it occurred in. Anything
// that prevents correct data acquisition is wrapped in a RunError and
// aborts the run; bookkeeping failures (storage, mail transport) are plain
// errors that are logged and swallowed.
type RunError struct {
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// NewRunError wraps err with a stage label.
func NewRunError(stage string, err error) *RunError {
	return &RunError{Stage: stage, Err: err}
}

// StageOf returns the stage label of err if it is a RunError, else "run".
func StageOf(err error) string {
	var re *RunError
	if errors.As(err, &re) {
		return re.Stage
	}
	return "run"
}
