package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/panectl/internal/application/port/mocks"
	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
)

func TestResolvePanesUseCase_Execute_ResolvesChain(t *testing.T) {
	ctx := testContext()
	uc := newResolver(t, selfNode("root"))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path: path([]string{"level1"}, []string{"level2"}),
	}))

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, []string{"root", "level1", "level2"}, last.Panes.IDs())
	assert.True(t, last.Settled)
	assert.NoError(t, last.Err)
}

func TestResolvePanesUseCase_Execute_SplitEmitsLoadingFirst(t *testing.T) {
	ctx := testContext()
	uc := newResolver(t, selfNode("root"))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path: path([]string{"level1"}, []string{"level2", "level2"}),
	}))

	assert.Equal(t, [][]string{
		{"root", "…", "…", "…"},
		{"root", "level1", "…", "…"},
		{"root", "level1", "level2", "…"},
		{"root", "level1", "level2", "level2"},
	}, idsOf(updates))
	for i, u := range updates {
		assert.Equal(t, i == len(updates)-1, u.Settled, "update %d", i)
	}
}

func TestResolvePanesUseCase_Execute_SplitSiblingContext(t *testing.T) {
	ctx := testContext()

	var mu sync.Mutex
	contexts := map[int]entity.ResolutionContext{}
	a := &entity.Node{ID: "a", Type: entity.NodeTypeList}
	a.Child = func(_ context.Context, itemID string, rc entity.ResolutionContext) entity.ChildResult {
		mu.Lock()
		contexts[rc.Index] = rc
		mu.Unlock()
		return entity.Value(&entity.Node{ID: itemID, Type: entity.NodeTypeDocument})
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	p := entity.RoutePath{
		{{ID: "a"}},
		{
			{ID: "doc", Params: map[string]string{"view": "json", "lang": "en"}, Payload: map[string]any{"x": 1.0}},
			{ID: "doc", Params: map[string]string{"lang": "fr"}},
		},
	}
	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{Path: p}))
	require.NotEmpty(t, updates)
	assert.Equal(t, []string{"root", "a", "doc", "doc"}, updates[len(updates)-1].Panes.IDs())

	mu.Lock()
	defer mu.Unlock()
	primary, split := contexts[2], contexts[3]

	assert.Same(t, a, primary.Parent)
	assert.Equal(t, 0, primary.SplitIndex)
	assert.Equal(t, map[string]string{"view": "json", "lang": "en"}, primary.Params)
	assert.Equal(t, []string{"a", "doc"}, primary.Path)

	assert.Same(t, a, split.Parent, "split siblings share the previous level's node as parent")
	assert.Equal(t, 1, split.SplitIndex)
	assert.Equal(t, 3, split.Index)
	assert.Equal(t, map[string]string{"lang": "fr"}, split.Params, "view is exclusive to the primary sibling")
	assert.Equal(t, map[string]any{"x": 1.0}, split.Payload)
}

func TestResolvePanesUseCase_Execute_ExhaustionTruncatesAndWarns(t *testing.T) {
	ctx, logs := capturingContext()
	a := listNode("a", nil)
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path: path([]string{"a"}, []string{"missing"}, []string{"deeper"}),
	}))

	assert.Equal(t, [][]string{
		{"root", "…", "…", "…"},
		{"root", "a", "…", "…"},
		{"root", "a"},
	}, idsOf(updates))

	last := updates[len(updates)-1]
	assert.True(t, last.Settled)
	assert.NoError(t, last.Err)

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, "Pane returned no child"))
	assert.Contains(t, out, `"flat_index":2`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestResolvePanesUseCase_Execute_NoChildAtDeepestLevel(t *testing.T) {
	ctx := testContext()
	uc := newResolver(t, listNode("root", nil))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{Path: path([]string{"a"})}))

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, []string{"root"}, last.Panes.IDs())
	assert.True(t, last.Settled)
	assert.NoError(t, last.Err)
}

func TestResolvePanesUseCase_Execute_DeferredErrorEndsRun(t *testing.T) {
	ctx := testContext()
	boom := errors.New("backend down")

	a := &entity.Node{ID: "a", Type: entity.NodeTypeDocumentList}
	a.Child = func(context.Context, string, entity.ResolutionContext) entity.ChildResult {
		return entity.Deferred(func(context.Context) (*entity.Node, error) {
			return nil, boom
		})
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path: path([]string{"a"}, []string{"doc"}),
	}))

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	require.Error(t, last.Err)
	assert.False(t, last.Settled)
	assert.ErrorIs(t, last.Err, boom)

	var perr *usecase.PaneResolutionError
	require.ErrorAs(t, last.Err, &perr)
	assert.Equal(t, 2, perr.Index)
	assert.Equal(t, "doc", perr.PaneID)
}

func TestResolvePanesUseCase_Execute_ResolverPanicIsScoped(t *testing.T) {
	ctx := testContext()
	a := &entity.Node{ID: "a"}
	a.Child = func(context.Context, string, entity.ResolutionContext) entity.ChildResult {
		panic("bad structure")
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path: path([]string{"a"}, []string{"b"}),
	}))

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.ErrorIs(t, last.Err, usecase.ErrResolverPanic)
}

func TestResolvePanesUseCase_Execute_RootUnavailable(t *testing.T) {
	ctx := testContext()
	src := portmocks.NewMockStructureSource(t)
	src.EXPECT().Root(mock.Anything).Return(nil, errors.New("no such file"))

	uc := usecase.NewResolvePanesUseCase(src, routepath.NewParamPolicy(nil), nil)
	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{Path: path([]string{"a"})}))

	require.Len(t, updates, 1)
	assert.ErrorIs(t, updates[0].Err, usecase.ErrStructureUnavailable)
	assert.Empty(t, updates[0].Panes)
}

func TestResolvePanesUseCase_Execute_StreamCascades(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	defer cancel()

	ticks := make(chan struct{})
	version := func(v int) *entity.Node {
		n := &entity.Node{ID: fmt.Sprintf("b@%d", v), Type: entity.NodeTypeList}
		n.Child = func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
			return entity.Value(&entity.Node{ID: fmt.Sprintf("%s@%d", itemID, v)})
		}
		return n
	}
	a := &entity.Node{ID: "a", Type: entity.NodeTypeList}
	a.Child = func(context.Context, string, entity.ResolutionContext) entity.ChildResult {
		return entity.Stream(func(ctx context.Context, emit func(*entity.Node)) error {
			for v := 1; ; v++ {
				emit(version(v))
				select {
				case <-ticks:
				case <-ctx.Done():
					return nil
				}
			}
		})
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	ch := uc.Execute(ctx, usecase.ResolveInput{Path: path([]string{"a"}, []string{"b"}, []string{"c"})})

	assert.Equal(t, []string{"root", "…", "…", "…"}, nextUpdate(t, ch).Panes.IDs())
	assert.Equal(t, []string{"root", "a", "…", "…"}, nextUpdate(t, ch).Panes.IDs())

	for v := 1; v <= 3; v++ {
		if v > 1 {
			ticks <- struct{}{}
		}
		b := fmt.Sprintf("b@%d", v)
		c := fmt.Sprintf("c@%d", v)
		assert.Equal(t, []string{"root", "a", b, "…"}, nextUpdate(t, ch).Panes.IDs())
		u := nextUpdate(t, ch)
		assert.Equal(t, []string{"root", "a", b, c}, u.Panes.IDs())
		assert.True(t, u.Settled)
	}

	cancel()
	drainUpdates(t, ch)
}

func TestResolvePanesUseCase_Execute_CancelStopsPendingSlots(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())

	stopped := make(chan struct{})
	a := &entity.Node{ID: "a"}
	a.Child = func(context.Context, string, entity.ResolutionContext) entity.ChildResult {
		return entity.Deferred(func(ctx context.Context) (*entity.Node, error) {
			<-ctx.Done()
			close(stopped)
			return nil, ctx.Err()
		})
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	ch := uc.Execute(ctx, usecase.ResolveInput{Path: path([]string{"a"}, []string{"b"})})
	assert.Equal(t, []string{"root", "…", "…"}, nextUpdate(t, ch).Panes.IDs())
	assert.Equal(t, []string{"root", "a", "…"}, nextUpdate(t, ch).Panes.IDs())

	cancel()
	for u := range ch {
		assert.NoError(t, u.Err, "cancellation is not a resolution error")
	}
	<-stopped
}

func TestResolvePanesUseCase_Execute_FallbackEditorEndsChain(t *testing.T) {
	ctx := testContext()
	uc := newResolver(t, selfNode("root"))

	p := entity.RoutePath{
		{{ID: "__edit__doc1", Params: map[string]string{"type": "author"}, Payload: map[string]any{"name": "Ada"}}},
		{{ID: "more"}},
	}
	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{Path: p}))

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	require.Len(t, last.Panes, 2)
	assert.True(t, last.Settled)

	editor := last.Panes[1]
	assert.Equal(t, "__edit__doc1", editor.ID)
	assert.Equal(t, entity.NodeTypeDocument, editor.Type)
	require.NotNil(t, editor.Options)
	assert.Equal(t, "doc1", editor.Options.ID)
	assert.Equal(t, "author", editor.Options.Type)
	assert.Equal(t, map[string]any{"name": "Ada"}, editor.Options.TemplateParameters)
}

func TestResolvePanesUseCase_Execute_ResumesFromDiffPoint(t *testing.T) {
	ctx := testContext()

	var rootCalls atomic.Int32
	root := selfNode("root")
	src := portmocks.NewMockStructureSource(t)
	src.EXPECT().Root(mock.Anything).RunAndReturn(func(context.Context) (*entity.Node, error) {
		rootCalls.Add(1)
		return root, nil
	}).Maybe()
	uc := usecase.NewResolvePanesUseCase(src, routepath.NewParamPolicy(nil), nil)

	a := selfNode("a")
	previous := entity.FlatPaneList{root, a, selfNode("b")}

	updates := drainUpdates(t, uc.Execute(ctx, usecase.ResolveInput{
		Path:     path([]string{"a"}, []string{"c"}),
		Previous: previous,
		From:     routepath.DiffPoint{Level: 1},
	}))

	assert.Equal(t, [][]string{
		{"root", "a", "…"},
		{"root", "a", "c"},
	}, idsOf(updates))
	assert.Same(t, a, updates[1].Panes[1], "panes before the diff point are carried over")
	assert.Zero(t, rootCalls.Load(), "root is reused from the previous panes")
}

func TestPaneRun_Reroute_KeepsLiveStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	defer cancel()

	ticks := make(chan struct{})
	var subscriptions atomic.Int32
	a := &entity.Node{ID: "a", Type: entity.NodeTypeList}
	a.Child = func(context.Context, string, entity.ResolutionContext) entity.ChildResult {
		return entity.Stream(func(ctx context.Context, emit func(*entity.Node)) error {
			subscriptions.Add(1)
			for v := 1; ; v++ {
				emit(selfNode(fmt.Sprintf("b@%d", v)))
				select {
				case <-ticks:
				case <-ctx.Done():
					return nil
				}
			}
		})
	}
	uc := newResolver(t, listNode("root", map[string]*entity.Node{"a": a}))

	first := path([]string{"a"}, []string{"b"})
	run := uc.Start(ctx, usecase.ResolveInput{Path: first, Generation: 1})
	ch := run.Updates()
	for u := nextUpdate(t, ch); !u.Settled; u = nextUpdate(t, ch) {
	}

	second := path([]string{"a"}, []string{"b"}, []string{"c"})
	dp, ok := routepath.ComputeDiffPoint(second, first)
	require.True(t, ok)
	require.True(t, run.Reroute(usecase.ResolveInput{Path: second, From: dp, Generation: 2}))

	u := nextUpdate(t, ch)
	assert.Equal(t, []string{"root", "a", "b@1", "…"}, u.Panes.IDs())
	assert.Equal(t, uint64(2), u.Generation)
	assert.Equal(t, []string{"root", "a", "b@1", "c"}, nextUpdate(t, ch).Panes.IDs())

	ticks <- struct{}{}
	assert.Equal(t, []string{"root", "a", "b@2", "…"}, nextUpdate(t, ch).Panes.IDs())
	assert.Equal(t, []string{"root", "a", "b@2", "c"}, nextUpdate(t, ch).Panes.IDs())
	assert.Equal(t, int32(1), subscriptions.Load(), "the stream survives the reroute")

	cancel()
	<-run.Done()
	assert.False(t, run.Reroute(usecase.ResolveInput{Path: first}))
}
