// Package router provides an in-process router that keeps a history of
// pane segments and feeds every change to the navigator.
package router

import (
	"context"
	"sync"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/logging"
)

// Memory is a router whose URL is a pane segment held in memory.
//
// Navigate may be called from the goroutine that reads Paths, so changes are
// queued and delivered by a separate pump.
type Memory struct {
	mu      sync.Mutex
	history []string
	index   int
	queue   []entity.RoutePath
	closed  bool

	wake  chan struct{}
	paths chan entity.RoutePath
}

// NewMemory starts a router. Paths is closed once ctx is done.
func NewMemory(ctx context.Context) *Memory {
	m := &Memory{
		index: -1,
		wake:  make(chan struct{}, 1),
		paths: make(chan entity.RoutePath),
	}
	go m.pump(ctx)
	return m
}

// Paths delivers the route path after every history change.
func (m *Memory) Paths() <-chan entity.RoutePath {
	return m.paths
}

// Push decodes segment and records it as a new history entry. Malformed
// chunks are skipped and logged.
func (m *Memory) Push(ctx context.Context, segment string) entity.RoutePath {
	path, warnings := routepath.Decode(segment)
	log := logging.FromContext(ctx)
	for _, w := range warnings {
		log.Warn().Err(w).Str("segment", segment).Msg("skipping malformed route chunk")
	}

	m.mu.Lock()
	m.record(routepath.Encode(path), false)
	m.enqueueLocked(path)
	m.mu.Unlock()
	return path
}

// Navigate implements port.Router.
func (m *Memory) Navigate(ctx context.Context, state entity.RouterState, opts entity.NavigateOptions) error {
	segment := routepath.Encode(state.Panes)
	logging.FromContext(ctx).Debug().
		Str("segment", segment).
		Bool("replace", opts.Replace).
		Msg("router navigate")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(segment, opts.Replace)
	m.enqueueLocked(state.Panes.Clone())
	return nil
}

// Back moves to the previous history entry. It reports false at the start.
func (m *Memory) Back() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index <= 0 {
		return false
	}
	m.index--
	path, _ := routepath.Decode(m.history[m.index])
	m.enqueueLocked(path)
	return true
}

// Current returns the segment of the current history entry.
func (m *Memory) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 0 {
		return ""
	}
	return m.history[m.index]
}

// History returns the recorded segments, oldest first.
func (m *Memory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history[:m.index+1]...)
}

func (m *Memory) record(segment string, replace bool) {
	if replace && m.index >= 0 {
		m.history[m.index] = segment
		return
	}
	// a push drops any forward entries
	m.history = append(m.history[:m.index+1], segment)
	m.index++
}

func (m *Memory) enqueueLocked(path entity.RoutePath) {
	if m.closed {
		return
	}
	m.queue = append(m.queue, path)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Memory) pump(ctx context.Context) {
	defer close(m.paths)
	defer func() {
		m.mu.Lock()
		m.closed = true
		m.queue = nil
		m.mu.Unlock()
	}()

	for {
		m.mu.Lock()
		var next entity.RoutePath
		ready := len(m.queue) > 0
		if ready {
			next = m.queue[0]
			m.queue = m.queue[1:]
		}
		m.mu.Unlock()

		if !ready {
			select {
			case <-ctx.Done():
				return
			case <-m.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case m.paths <- next:
		}
	}
}

var _ port.Router = (*Memory)(nil)
