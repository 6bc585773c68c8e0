package commands

import (
	"errors"

	"github.com/wsafety/desk/pkg/core/failure"
)

// reportedError wraps an error whose message the notifier already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reported marks validation and transport failures as already shown to the
// user, so the caller only sets the exit status
func reported(err error) error {
	if err == nil {
		return nil
	}
	if failure.HasKind(err, failure.KindValidation) || failure.HasKind(err, failure.KindTransport) {
		return &reportedError{err: err}
	}
	return err
}

// IsReported checks if err has already been printed as a notification
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
