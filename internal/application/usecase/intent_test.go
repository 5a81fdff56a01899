package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/panectl/internal/application/port/mocks"
	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/domain/entity"
)

func handles(intents ...string) entity.IntentHandler {
	return func(intent string, _ map[string]string, _ entity.IntentContext) bool {
		for _, i := range intents {
			if i == intent {
				return true
			}
		}
		return false
	}
}

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestIntentUseCase_GetIntentState_InnermostCapablePane(t *testing.T) {
	ctx := testContext()
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{
		{ID: "root"},
		{ID: "a", CanHandleIntent: handles("edit")},
	})

	uc := usecase.NewIntentUseCase(registry, nil, nil, nil)
	state := uc.GetIntentState(ctx, usecase.IntentInput{
		Intent: "edit",
		Params: map[string]string{"id": "x", "type": "T"},
		Path:   path([]string{"a"}, []string{"b"}),
	})

	require.True(t, state.Resolved)
	assert.Equal(t, entity.RoutePath{
		{{ID: "a"}},
		{{ID: "x", Params: map[string]string{}}},
	}, state.Panes)
}

func TestIntentUseCase_GetIntentState_HandlerReceivesPaneAndIndex(t *testing.T) {
	ctx := testContext()
	var got entity.IntentContext
	pane := &entity.Node{ID: "a"}
	pane.CanHandleIntent = func(intent string, params map[string]string, ic entity.IntentContext) bool {
		got = ic
		return true
	}
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{{ID: "root"}, pane})

	uc := usecase.NewIntentUseCase(registry, nil, nil, fixedID("new"))
	uc.GetIntentState(ctx, usecase.IntentInput{Intent: "edit", Path: path([]string{"a"})})

	assert.Same(t, pane, got.Pane)
	assert.Equal(t, 1, got.Index)
}

func TestIntentUseCase_GetIntentState_DocumentListTypeRule(t *testing.T) {
	ctx := testContext()
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{
		{ID: "root"},
		{ID: "authors", Type: entity.NodeTypeDocumentList, SchemaType: "author"},
		{ID: "books", Type: entity.NodeTypeDocumentList, SchemaType: "book"},
		entity.Loading,
	})

	uc := usecase.NewIntentUseCase(registry, nil, nil, fixedID("generated"))
	state := uc.GetIntentState(ctx, usecase.IntentInput{
		Intent:  usecase.IntentCreate,
		Params:  map[string]string{"type": "author", "template": "author-with-bio"},
		Path:    path([]string{"authors"}, []string{"books"}, []string{"pending"}),
		Payload: map[string]any{"name": "Ada"},
	})

	require.True(t, state.Resolved)
	assert.Equal(t, entity.RoutePath{
		{{ID: "authors"}},
		{{
			ID:      "generated",
			Params:  map[string]string{"template": "author-with-bio"},
			Payload: map[string]any{"name": "Ada"},
		}},
	}, state.Panes)
}

func TestIntentUseCase_GetIntentState_SplitLevelKeptWhole(t *testing.T) {
	ctx := testContext()
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{
		{ID: "root"},
		{ID: "a"},
		{ID: "b1"},
		{ID: "b2", CanHandleIntent: handles("edit")},
		{ID: "c"},
	})

	uc := usecase.NewIntentUseCase(registry, nil, nil, nil)
	state := uc.GetIntentState(ctx, usecase.IntentInput{
		Intent: "edit",
		Params: map[string]string{"id": "doc"},
		Path:   path([]string{"a"}, []string{"b1", "b2"}, []string{"c"}),
	})

	require.True(t, state.Resolved)
	assert.Equal(t, path([]string{"a"}, []string{"b1", "b2"}), state.Panes[:2])
	assert.Equal(t, "doc", state.Panes[2][0].ID)
}

func TestIntentUseCase_GetIntentState_Unresolved(t *testing.T) {
	ctx := testContext()
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{{ID: "root"}, {ID: "a"}})

	uc := usecase.NewIntentUseCase(registry, nil, nil, nil)
	params := map[string]string{"id": "x", "type": "T"}
	state := uc.GetIntentState(ctx, usecase.IntentInput{
		Intent:  "edit",
		Params:  params,
		Path:    path([]string{"a"}),
		Payload: "p",
	})

	assert.False(t, state.Resolved)
	assert.Nil(t, state.Panes)
	assert.Equal(t, "edit", state.Intent)
	assert.Equal(t, params, state.Params)
	assert.Equal(t, "p", state.Payload)
}

func TestIntentUseCase_GetIntentState_EmptyRegistryAfterUnregister(t *testing.T) {
	ctx := testContext()
	registry := usecase.NewActivePanes()
	registry.Register()
	registry.Set(entity.FlatPaneList{{ID: "root"}, {ID: "a", CanHandleIntent: handles("edit")}})
	registry.Unregister()

	uc := usecase.NewIntentUseCase(registry, nil, nil, nil)
	state := uc.GetIntentState(ctx, usecase.IntentInput{Intent: "edit", Path: path([]string{"a"})})
	assert.False(t, state.Resolved)
}

func TestIntentUseCase_ResolveFallback_UsesBackendType(t *testing.T) {
	ctx := testContext()
	lookup := portmocks.NewMockDocumentTypeLookup(t)
	lookup.EXPECT().DocumentType(mock.Anything, "x").Return("author", true, nil).Once()

	uc := usecase.NewIntentUseCase(usecase.NewActivePanes(), nil, lookup, nil)
	panes, err := uc.ResolveFallback(ctx, usecase.IntentState{
		Intent: "edit",
		Params: map[string]string{"id": "x", "type": "guess"},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoutePath{{{
		ID:     "__edit__x",
		Params: map[string]string{"type": "author"},
	}}}, panes)
}

func TestIntentUseCase_ResolveFallback_UnknownDocumentKeepsIntentType(t *testing.T) {
	ctx := testContext()
	lookup := portmocks.NewMockDocumentTypeLookup(t)
	lookup.EXPECT().DocumentType(mock.Anything, "x").Return("", false, nil)

	uc := usecase.NewIntentUseCase(usecase.NewActivePanes(), nil, lookup, nil)
	panes, err := uc.ResolveFallback(ctx, usecase.IntentState{
		Params: map[string]string{"id": "x", "type": "guess"},
	})

	require.NoError(t, err)
	assert.Equal(t, "guess", panes[0][0].Params["type"])
}

func TestIntentUseCase_ResolveFallback_LookupError(t *testing.T) {
	ctx := testContext()
	boom := errors.New("backend down")
	lookup := portmocks.NewMockDocumentTypeLookup(t)
	lookup.EXPECT().DocumentType(mock.Anything, "x").Return("", false, boom)

	uc := usecase.NewIntentUseCase(usecase.NewActivePanes(), nil, lookup, nil)
	_, err := uc.ResolveFallback(ctx, usecase.IntentState{Params: map[string]string{"id": "x"}})

	assert.ErrorIs(t, err, boom)
}

func TestIntentUseCase_ResolveFallback_NewDocumentSkipsLookup(t *testing.T) {
	ctx := testContext()
	lookup := portmocks.NewMockDocumentTypeLookup(t)

	uc := usecase.NewIntentUseCase(usecase.NewActivePanes(), usecase.NewFallbackEditor("@", nil), lookup, fixedID("fresh"))
	panes, err := uc.ResolveFallback(ctx, usecase.IntentState{
		Intent: usecase.IntentCreate,
		Params: map[string]string{"type": "book", "template": "novel"},
	})

	require.NoError(t, err)
	assert.Equal(t, "@fresh", panes[0][0].ID)
	assert.Equal(t, map[string]string{"type": "book", "template": "novel"}, panes[0][0].Params)
}

func TestIntentUseCase_ResolveFallback_SharesConcurrentLookups(t *testing.T) {
	ctx := testContext()

	var calls atomic.Int32
	gate := make(chan struct{})
	lookup := portmocks.NewMockDocumentTypeLookup(t)
	lookup.EXPECT().DocumentType(mock.Anything, "x").RunAndReturn(func(context.Context, string) (string, bool, error) {
		calls.Add(1)
		<-gate
		return "author", true, nil
	})

	uc := usecase.NewIntentUseCase(usecase.NewActivePanes(), nil, lookup, nil)

	const callers = 4
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			started.Done()
			panes, err := uc.ResolveFallback(ctx, usecase.IntentState{Params: map[string]string{"id": "x"}})
			assert.NoError(t, err)
			assert.Equal(t, "author", panes[0][0].Params["type"])
		}()
	}
	started.Wait()
	close(gate)
	wg.Wait()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.LessOrEqual(t, calls.Load(), int32(callers))
}
