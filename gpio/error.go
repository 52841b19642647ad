package gpio

import "fmt"

// RemoteFailureError is raised from any proxy operation whose report
// carries a nonzero result, per spec.md §4.E / §7.
type RemoteFailureError struct {
	Code int64
	What string
}

func newRemoteFailureError(what string) *RemoteFailureError {
	return &RemoteFailureError{What: what}
}

func newRemoteFailureErrorWithCode(code int64, what string) *RemoteFailureError {
	return &RemoteFailureError{Code: code, What: what}
}

func (e *RemoteFailureError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("gpio: remote failure %d: %s", e.Code, e.What)
	}
	return fmt.Sprintf("gpio: remote failure: %s", e.What)
}
