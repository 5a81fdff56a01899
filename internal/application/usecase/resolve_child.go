package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/panectl/internal/domain/entity"
)

// ErrResolverPanic wraps a panic raised inside a structure child resolver.
var ErrResolverPanic = errors.New("child resolver panicked")

// ChildEvent is one step of a child resolution: a node (nil for "no child") or an error.
type ChildEvent struct {
	Node *entity.Node
	Err  error
}

// ResolveChild asks parent for its child with the given id and normalizes
// the answer into a channel of events.
//
// Values and deferred results yield exactly one event. Streams yield one
// event per emitted node. The channel is closed when the result settles,
// the stream completes, or ctx is cancelled; cancelling ctx is the only way
// to unsubscribe from a stream.
func ResolveChild(ctx context.Context, parent *entity.Node, id string, rc entity.ResolutionContext) <-chan ChildEvent {
	out := make(chan ChildEvent, 1)

	send := func(ev ChildEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				send(ChildEvent{Err: fmt.Errorf("%w: %v", ErrResolverPanic, r)})
			}
		}()

		if parent == nil || parent.Child == nil {
			send(ChildEvent{})
			return
		}

		result := parent.Child(ctx, id, rc)
		switch result.Kind() {
		case entity.ChildValue:
			send(ChildEvent{Node: result.Node()})

		case entity.ChildDeferred:
			fn := result.DeferredFunc()
			if fn == nil {
				send(ChildEvent{})
				return
			}
			node, err := fn(ctx)
			if ctx.Err() != nil {
				return
			}
			send(ChildEvent{Node: node, Err: err})

		case entity.ChildStream:
			fn := result.StreamFunc()
			if fn == nil {
				send(ChildEvent{})
				return
			}
			err := fn(ctx, func(n *entity.Node) {
				send(ChildEvent{Node: n})
			})
			if err != nil && ctx.Err() == nil {
				send(ChildEvent{Err: err})
			}

		default:
			send(ChildEvent{Err: fmt.Errorf("unknown child result kind %d", result.Kind())})
		}
	}()

	return out
}
