package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/infrastructure/router"
	"github.com/bnema/panectl/internal/logging"
)

// ErrNotSettled is returned when a segment does not settle in time.
var ErrNotSettled = errors.New("panes did not settle")

// Resolution is the outcome of resolving one segment.
type Resolution struct {
	Requested entity.RoutePath
	State     usecase.PaneState
	// Segment is the router's segment afterwards, shorter than the
	// requested one when panes were missing or splits collapsed.
	Segment string
	// Suggestions are declared pane ids close to the first missing one.
	Suggestions []string
}

// ResolveSegment decodes segment, resolves it to completion and returns the
// settled panes. The active pane registry holds them afterwards.
func (a *App) ResolveSegment(ctx context.Context, segment string, timeout time.Duration) (*Resolution, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	a.Registry.Register()
	r := router.NewMemory(ctx)
	states := a.NewNavigator(r).Run(ctx, r.Paths())
	requested := r.Push(ctx, segment)

	var last usecase.PaneState
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s: %s", ErrNotSettled, timeout, last.Panes.IDs())
			}
			return nil, ctx.Err()
		case s, ok := <-states:
			if !ok {
				return nil, ErrNotSettled
			}
			last = s
			logging.FromContext(ctx).Debug().
				Strs("panes", s.Panes.IDs()).
				Bool("settled", s.Settled).
				Msg("pane state")
			if s.Err != nil {
				return nil, s.Err
			}
			if s.Settled {
				res := &Resolution{Requested: requested, State: s, Segment: r.Current()}
				if len(s.Panes)-1 < requested.FlatLen() {
					res.Suggestions = a.suggest(requested, s.Panes)
				}
				return res, nil
			}
		}
	}
}

// suggest looks for declared ids close to the first requested pane that did
// not resolve. The parent chain follows the last sibling of each level.
func (a *App) suggest(requested entity.RoutePath, panes entity.FlatPaneList) []string {
	level, sibling, ok := requested.Locate(len(panes))
	if !ok || len(panes) == 0 {
		return nil
	}
	parent := make([]string, 0, level)
	for _, lvl := range requested[:level] {
		parent = append(parent, lvl[len(lvl)-1].ID)
	}
	return a.Structure.Suggest(parent, requested[level][sibling].ID)
}

// IntentRequest asks to open a document from the panes of Segment.
type IntentRequest struct {
	Segment string
	Intent  string
	Params  map[string]string
	Payload any
}

// IntentResult is where an intent leads.
type IntentResult struct {
	State usecase.IntentState
	// Path is the pane path to navigate to, in place or through the
	// fallback editor.
	Path     entity.RoutePath
	Fallback bool
}

// Segment renders the target path.
func (r *IntentResult) Segment() string {
	return routepath.Encode(r.Path)
}

// OpenIntent resolves req.Segment and then finds where the intent opens.
func (a *App) OpenIntent(ctx context.Context, req IntentRequest, timeout time.Duration) (*IntentResult, error) {
	var current entity.RoutePath
	if req.Segment != "" {
		res, err := a.ResolveSegment(ctx, req.Segment, timeout)
		if err != nil {
			return nil, err
		}
		current, _ = routepath.Decode(res.Segment)
	}

	state := a.Intents.GetIntentState(ctx, usecase.IntentInput{
		Intent:  req.Intent,
		Params:  req.Params,
		Path:    current,
		Payload: req.Payload,
	})
	if state.Resolved {
		return &IntentResult{State: state, Path: state.Panes}, nil
	}

	path, err := a.Intents.ResolveFallback(ctx, state)
	if err != nil {
		return nil, err
	}
	return &IntentResult{State: state, Path: path, Fallback: true}, nil
}
