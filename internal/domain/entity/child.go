package entity

import "context"

// ChildKind tags the shape of a ChildResult.
type ChildKind int

const (
	ChildValue    ChildKind = iota // resolved synchronously
	ChildDeferred                  // resolved once, later
	ChildStream                    // resolved repeatedly until cancelled
)

func (k ChildKind) String() string {
	switch k {
	case ChildValue:
		return "value"
	case ChildDeferred:
		return "deferred"
	case ChildStream:
		return "stream"
	default:
		return "unknown"
	}
}

// DeferredFunc settles a child exactly once.
type DeferredFunc func(ctx context.Context) (*Node, error)

// StreamFunc produces children through emit until it returns.
// It must return once ctx is done. A nil error means the stream completed.
type StreamFunc func(ctx context.Context, emit func(*Node)) error

// ChildResult is what a ChildResolver returns: a value, a deferred value or a stream.
type ChildResult struct {
	kind     ChildKind
	value    *Node
	deferred DeferredFunc
	stream   StreamFunc
}

// Value wraps an already-known child. A nil node means "no child".
func Value(n *Node) ChildResult {
	return ChildResult{kind: ChildValue, value: n}
}

// Deferred wraps a child that settles later.
func Deferred(fn DeferredFunc) ChildResult {
	return ChildResult{kind: ChildDeferred, deferred: fn}
}

// Stream wraps a child that may change over time.
func Stream(fn StreamFunc) ChildResult {
	return ChildResult{kind: ChildStream, stream: fn}
}

// NoChild is the result of a resolver with nothing to offer.
func NoChild() ChildResult {
	return Value(nil)
}

// Kind returns the tag.
func (r ChildResult) Kind() ChildKind {
	return r.kind
}

// Node returns the wrapped value for ChildValue results.
func (r ChildResult) Node() *Node {
	return r.value
}

// DeferredFunc returns the settle function for ChildDeferred results.
func (r ChildResult) DeferredFunc() DeferredFunc {
	return r.deferred
}

// StreamFunc returns the producer for ChildStream results.
func (r ChildResult) StreamFunc() StreamFunc {
	return r.stream
}
