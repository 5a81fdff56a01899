package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/infrastructure/router"
	"github.com/bnema/panectl/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func nextPath(t *testing.T, ch <-chan entity.RoutePath) entity.RoutePath {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "paths closed")
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for path")
	}
	return nil
}

func TestMemory_PushDecodesAndDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()
	r := router.NewMemory(ctx)

	pushed := r.Push(ctx, "authors;ada,view=edit|,view=preview")
	got := nextPath(t, r.Paths())

	assert.Equal(t, pushed, got)
	assert.Equal(t, []string{"authors", "ada", "ada"}, got.IDs())
	assert.Equal(t, "preview", got[1][1].Params["view"])
	assert.Equal(t, "authors;ada,view=edit|,view=preview", r.Current())
}

func TestMemory_PushSkipsMalformedChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()
	r := router.NewMemory(ctx)

	got := r.Push(ctx, "a;b,%%%")
	assert.Equal(t, []string{"a", "b"}, got.IDs())
	assert.Equal(t, "a;b", r.Current())
}

func TestMemory_NavigateReplaceRewritesCurrentEntry(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()
	r := router.NewMemory(ctx)

	r.Push(ctx, "a")
	r.Push(ctx, "a;b;c")

	truncated := entity.RoutePath{{{ID: "a"}}, {{ID: "b"}}}
	require.NoError(t, r.Navigate(ctx, entity.RouterState{Panes: truncated}, entity.NavigateOptions{Replace: true}))

	assert.Equal(t, []string{"a", "a;b"}, r.History())

	nextPath(t, r.Paths())
	nextPath(t, r.Paths())
	assert.Equal(t, truncated, nextPath(t, r.Paths()))
}

func TestMemory_NavigateFromReaderDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()
	r := router.NewMemory(ctx)

	r.Push(ctx, "a;b")
	first := nextPath(t, r.Paths())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 3 {
			_ = r.Navigate(ctx, entity.RouterState{Panes: first[:1]}, entity.NavigateOptions{Replace: true})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Navigate blocked without a reader")
	}
}

func TestMemory_Back(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()
	r := router.NewMemory(ctx)

	assert.False(t, r.Back())

	r.Push(ctx, "a")
	r.Push(ctx, "a;b")
	nextPath(t, r.Paths())
	nextPath(t, r.Paths())

	require.True(t, r.Back())
	assert.Equal(t, []string{"a"}, nextPath(t, r.Paths()).IDs())
	assert.Equal(t, "a", r.Current())
	assert.False(t, r.Back())

	r.Push(ctx, "x")
	assert.Equal(t, []string{"a", "x"}, r.History(), "pushing drops forward entries")
}

func TestMemory_PathsClosedOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	r := router.NewMemory(ctx)
	cancel()

	select {
	case _, ok := <-r.Paths():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("paths not closed")
	}
}
