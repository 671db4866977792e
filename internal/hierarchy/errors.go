package hierarchy

import (
	"errors"
	"fmt"

	"github.com/contentgraph/pagetree/api"
)

// errBrokenChain marks a chain that stopped at a dangling parent link.
var errBrokenChain = errors.New("parent chain is broken")

// SelfReferenceError reports a node assigned as its own parent.
type SelfReferenceError struct {
	Node string
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("node %s cannot be its own parent", e.Node)
}

// CycleError reports a parent assignment that would close a loop through
// one or more intermediate ancestors.
type CycleError struct {
	Node string
	// Through is the proposed parent whose ancestry already contains Node.
	// Empty when the cycle was found in stored links rather than a proposal.
	Through string
}

func (e *CycleError) Error() string {
	if e.Through == "" {
		return fmt.Sprintf("parent chain of node %s revisits an ancestor", e.Node)
	}
	return fmt.Sprintf("assigning parent %s to node %s would create a cycle", e.Through, e.Node)
}

// DepthError reports an ancestor walk that exceeded the configured budget
// without reaching a root.
type DepthError struct {
	Node string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("ancestor chain of node %s exceeds max depth %d", e.Node, e.Max)
}

// LookupError reports a store fetch that failed mid-resolution. It is a
// hard failure on the validation path and a soft (logged, degraded)
// failure during breadcrumb/URL recomputation.
type LookupError struct {
	Collection string
	ID         string
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ErrorKind names the validation error category for user-facing,
// field-level messages. Unrecognized errors map to "internal".
func ErrorKind(err error) string {
	var (
		selfRef *SelfReferenceError
		cycle   *CycleError
		depth   *DepthError
		lookup  *LookupError
		unknown *UnknownContentTypeError
	)
	switch {
	case errors.As(err, &selfRef):
		return "selfReference"
	case errors.As(err, &cycle):
		return "cycleDetected"
	case errors.As(err, &depth):
		return "depthExceeded"
	case errors.As(err, &lookup):
		return "lookupFailure"
	case errors.As(err, &unknown):
		return "unknownContentType"
	}
	return "internal"
}

// UnknownContentTypeError reports a node whose type has no registered URL
// namespace. This is a configuration error and always fails fast: a
// silently defaulted prefix would publish a wrong URL.
type UnknownContentTypeError struct {
	Type api.ContentType
}

func (e *UnknownContentTypeError) Error() string {
	return fmt.Sprintf("content type %q has no registered URL namespace", e.Type)
}
