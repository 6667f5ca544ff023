// ABOUTME: Error taxonomy for remote store operations
// ABOUTME: NetworkError for reads, RemoteWriteError for writes, ValidationError for local preconditions
package rest

import "fmt"

// NetworkError reports a failed read: transport failure or a non-2xx
// response on a fetch. The caller treats it as "no rows", never as a
// partial result.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteWriteError reports a non-2xx response on a create, update,
// archive, or brief request. It carries the status and response body so
// the failure reason can be surfaced verbatim.
type RemoteWriteError struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteWriteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s failed HTTP %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s failed HTTP %d", e.Op, e.Status)
}

// ValidationError reports a local precondition failure caught before any
// network call: a missing required field, an unresolvable client, or an
// empty recipient list.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}
