package stepmotor

// NilProxyError is returned by New when one of the four coil proxies is
// nil, per spec.md §3's "construction validates that all four proxy
// references are non-null".
type NilProxyError struct{}

func newNilProxyError() *NilProxyError { return &NilProxyError{} }

func (e *NilProxyError) Error() string {
	return "stepmotor: all four coil proxies are required"
}
