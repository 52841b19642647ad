package rpcclient

// TimeoutError is returned by Run when the connection's Readable call
// gives up before a reply frame arrives, per spec.md §7's Timeout kind.
type TimeoutError struct{}

func newTimeoutError() *TimeoutError { return &TimeoutError{} }

func (e *TimeoutError) Error() string {
	return "rpcclient: timed out waiting for a reply"
}

// MalformedReportError is returned by Run when a reply frame decodes to
// something other than a structured Object.
type MalformedReportError struct{}

func newMalformedReportError() *MalformedReportError { return &MalformedReportError{} }

func (e *MalformedReportError) Error() string {
	return "rpcclient: reply frame did not decode to an object"
}
