package usecase_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/panectl/internal/application/port/mocks"
	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/logging"
)

const waitTimeout = 2 * time.Second

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// syncBuffer is a log sink safe for the resolver goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func capturingContext() (context.Context, *syncBuffer) {
	buf := &syncBuffer{}
	logger := logging.New(logging.Config{Level: zerolog.DebugLevel, Format: "json", Output: buf})
	return logging.WithContext(context.Background(), logger), buf
}

// selfNode answers every child id with a new node of that id.
func selfNode(id string) *entity.Node {
	n := &entity.Node{ID: id, Type: entity.NodeTypeList}
	n.Child = func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
		return entity.Value(selfNode(itemID))
	}
	return n
}

// listNode answers child ids from a fixed table; unknown ids have no child.
func listNode(id string, children map[string]*entity.Node) *entity.Node {
	n := &entity.Node{ID: id, Type: entity.NodeTypeList}
	n.Child = func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
		return entity.Value(children[itemID])
	}
	return n
}

func structureOf(t *testing.T, root *entity.Node) *portmocks.MockStructureSource {
	src := portmocks.NewMockStructureSource(t)
	src.EXPECT().Root(mock.Anything).Return(root, nil).Maybe()
	return src
}

func newResolver(t *testing.T, root *entity.Node) *usecase.ResolvePanesUseCase {
	return usecase.NewResolvePanesUseCase(
		structureOf(t, root),
		routepath.NewParamPolicy(routepath.DefaultExclusiveParams),
		usecase.NewFallbackEditor("", nil),
	)
}

func path(levels ...[]string) entity.RoutePath {
	p := make(entity.RoutePath, 0, len(levels))
	for _, ids := range levels {
		level := make(entity.RouteLevel, 0, len(ids))
		for _, id := range ids {
			level = append(level, entity.RouteSibling{ID: id})
		}
		p = append(p, level)
	}
	return p
}

func nextUpdate(t *testing.T, ch <-chan usecase.PaneUpdate) usecase.PaneUpdate {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "update channel closed")
		return u
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for pane update")
	}
	return usecase.PaneUpdate{}
}

func drainUpdates(t *testing.T, ch <-chan usecase.PaneUpdate) []usecase.PaneUpdate {
	t.Helper()
	var all []usecase.PaneUpdate
	deadline := time.After(waitTimeout)
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return all
			}
			all = append(all, u)
		case <-deadline:
			t.Fatal("timed out waiting for update channel to close")
			return all
		}
	}
}

func nextState(t *testing.T, ch <-chan usecase.PaneState) usecase.PaneState {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "state channel closed")
		return s
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for pane state")
	}
	return usecase.PaneState{}
}

func waitSettled(t *testing.T, ch <-chan usecase.PaneState) usecase.PaneState {
	t.Helper()
	for {
		s := nextState(t, ch)
		if s.Settled || s.Err != nil {
			return s
		}
	}
}

func drainStates(t *testing.T, ch <-chan usecase.PaneState) []usecase.PaneState {
	t.Helper()
	var all []usecase.PaneState
	deadline := time.After(waitTimeout)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return all
			}
			all = append(all, s)
		case <-deadline:
			t.Fatal("timed out waiting for state channel to close")
			return all
		}
	}
}

func idsOf(updates []usecase.PaneUpdate) [][]string {
	out := make([][]string, 0, len(updates))
	for _, u := range updates {
		out = append(out, u.Panes.IDs())
	}
	return out
}
