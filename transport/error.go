package transport

import "fmt"

// ListenerDeadError is stored on a Connection when its listener goroutine
// exits because the port became unreadable; it is returned by Err and
// surfaces to callers of Send, Readable, and Read so they stop trusting
// the connection instead of hanging or silently emptying against a
// frame buffer nobody is feeding anymore.
type ListenerDeadError struct {
	err error
}

func newListenerDeadError(cause error) *ListenerDeadError {
	return &ListenerDeadError{err: cause}
}

func (e *ListenerDeadError) Error() string {
	return fmt.Sprintf("transport: listener stopped: %s", e.err)
}

func (e *ListenerDeadError) Unwrap() error {
	return e.err
}
