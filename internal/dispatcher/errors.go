package dispatcher

import "errors"

var (
	// ErrQueueFull indicates the dispatcher cannot accept new runs right now.
	ErrQueueFull = errors.New("run queue is full")
	// ErrQueueClosed indicates the dispatcher has been shut down.
	ErrQueueClosed = errors.New("run queue is closed")
)

// nonRetryableError wraps failures that retrying cannot fix, like an invalid
// roster.
type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }

func (e *nonRetryableError) Unwrap() error { return e.err }

// MarkNonRetryable flags err so the dispatcher gives up after one attempt.
func MarkNonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable reports whether err was flagged with MarkNonRetryable.
func IsNonRetryable(err error) bool {
	var target *nonRetryableError
	return errors.As(err, &target)
}
