package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/logging"
)

// PaneState is what a pane consumer renders.
type PaneState struct {
	Path    entity.RoutePath
	Panes   entity.FlatPaneList
	Settled bool
	Err     error
}

// NavigateOptions tunes the navigation coordinator.
type NavigateOptions struct {
	StabilizeDelay time.Duration
	MaxSplits      int // 0 disables the split limit
}

// NavigatePanesUseCase connects router paths to resolution runs, keeps the
// active pane registry current and tells the router when reality differs
// from the requested path.
type NavigatePanesUseCase struct {
	resolver *ResolvePanesUseCase
	router   port.Router
	registry *ActivePanes
	opts     NavigateOptions
}

// NewNavigatePanesUseCase creates the coordinator. router and registry may be nil.
func NewNavigatePanesUseCase(
	resolver *ResolvePanesUseCase,
	router port.Router,
	registry *ActivePanes,
	opts NavigateOptions,
) *NavigatePanesUseCase {
	return &NavigatePanesUseCase{
		resolver: resolver,
		router:   router,
		registry: registry,
		opts:     opts,
	}
}

// EnforceSplitLimit collapses splits wider than maxSiblings and replaces the
// router state with the collapsed path. It reports whether a collapse happened.
func (uc *NavigatePanesUseCase) EnforceSplitLimit(ctx context.Context, path entity.RoutePath, maxSiblings int) (bool, error) {
	collapsed, changed := routepath.CollapseSplits(path, maxSiblings)
	if !changed {
		return false, nil
	}
	logging.FromContext(ctx).Debug().
		Int("max_splits", maxSiblings).
		Msg("collapsing split panes")
	if err := uc.navigate(ctx, collapsed); err != nil {
		return true, fmt.Errorf("collapse splits: %w", err)
	}
	return true, nil
}

func (uc *NavigatePanesUseCase) navigate(ctx context.Context, path entity.RoutePath) error {
	if uc.router == nil {
		return nil
	}
	return uc.router.Navigate(ctx, entity.RouterState{Panes: path}, entity.NavigateOptions{Replace: true})
}

// Run consumes paths until the channel closes or ctx is done and emits the
// pane state for the most recent path. Updates from superseded paths are
// never emitted.
func (uc *NavigatePanesUseCase) Run(ctx context.Context, paths <-chan entity.RoutePath) <-chan PaneState {
	n := &navigation{
		uc:  uc,
		ctx: logging.WithComponent(ctx, "navigator"),
		out: make(chan PaneState),
	}
	go n.loop(paths)
	return n.out
}

type navigation struct {
	uc  *NavigatePanesUseCase
	ctx context.Context
	out chan PaneState

	path       entity.RoutePath
	havePath   bool
	generation uint64
	current    entity.FlatPaneList
	settled    bool

	run     *PaneRun
	cancel  context.CancelFunc
	updates <-chan PaneUpdate

	pending []PaneState
	last    *PaneState
}

func (n *navigation) loop(paths <-chan entity.RoutePath) {
	defer close(n.out)
	defer n.stopRun()

	for {
		if paths == nil && n.updates == nil && len(n.pending) == 0 {
			return
		}

		var out chan PaneState
		var next PaneState
		if len(n.pending) > 0 {
			out = n.out
			next = n.pending[0]
		}

		select {
		case <-n.ctx.Done():
			return
		case out <- next:
			n.pending = n.pending[1:]
		case p, ok := <-paths:
			if !ok {
				paths = nil
				continue
			}
			n.navigateTo(p)
		case u, ok := <-n.updates:
			if !ok {
				n.updates = nil
				continue
			}
			n.apply(u)
		}
	}
}

func (n *navigation) navigateTo(p entity.RoutePath) {
	log := logging.FromContext(n.ctx)

	if limit := n.uc.opts.MaxSplits; limit > 0 {
		if collapsed, changed := routepath.CollapseSplits(p, limit); changed {
			if err := n.uc.navigate(n.ctx, collapsed); err != nil {
				log.Warn().Err(err).Msg("failed to collapse split panes")
			}
			p = collapsed
		}
	}

	if !n.havePath {
		n.havePath = true
		n.resolve(p, routepath.Origin)
		return
	}

	eq := routepath.ComputeEquality(n.path, p)
	switch {
	case eq.SameParams:
		return
	case eq.SameIDs:
		// params only: the panes stay, the path they answer changes
		n.path = p.Clone()
		if n.run != nil {
			// an ended run has nothing left to re-resolve
			n.run.UpdateParams(n.path)
		}
		n.publish(PaneState{Path: n.path, Panes: n.current, Settled: n.settled})
		return
	}

	dp, ok := routepath.ComputeDiffPoint(p, n.path)
	if !ok {
		dp = routepath.Origin
	}
	n.resolve(p, dp)
}

func (n *navigation) resolve(p entity.RoutePath, from routepath.DiffPoint) {
	n.generation++
	n.path = p.Clone()
	input := ResolveInput{
		Path:       n.path,
		Previous:   n.current,
		From:       from,
		Generation: n.generation,
	}

	logging.FromContext(n.ctx).Debug().
		Uint64("generation", n.generation).
		Int("diff_level", from.Level).
		Int("diff_sibling", from.Sibling).
		Msg("navigating")

	if n.run != nil && n.run.Reroute(input) {
		return
	}

	n.stopRun()
	runCtx, cancel := context.WithCancel(logging.WithGeneration(n.ctx, n.generation))
	n.cancel = cancel
	n.run = n.uc.resolver.Start(runCtx, input)
	n.updates = Stabilize(runCtx, n.run.Updates(), n.uc.opts.StabilizeDelay)
}

func (n *navigation) stopRun() {
	if n.cancel != nil {
		n.cancel()
	}
	n.run, n.cancel, n.updates = nil, nil, nil
}

func (n *navigation) apply(u PaneUpdate) {
	if u.Generation != n.generation {
		return
	}

	n.current = u.Panes
	n.settled = u.Settled && u.Err == nil
	if n.uc.registry != nil {
		n.uc.registry.Set(u.Panes)
	}
	n.publish(PaneState{Path: n.path, Panes: u.Panes, Settled: n.settled, Err: u.Err})

	if !n.settled {
		return
	}
	if resolved := len(u.Panes) - 1; resolved < n.path.FlatLen() {
		truncated := routepath.TruncateFlat(n.path, resolved)
		logging.FromContext(n.ctx).Debug().
			Int("requested", n.path.FlatLen()).
			Int("resolved", resolved).
			Msg("truncating route to resolved panes")
		if err := n.uc.navigate(n.ctx, truncated); err != nil {
			logging.FromContext(n.ctx).Warn().Err(err).Msg("failed to truncate route")
		}
	}
}

// publish queues s unless it repeats the last published state.
func (n *navigation) publish(s PaneState) {
	if n.last != nil && sameState(*n.last, s) {
		return
	}
	n.last = &s
	n.pending = append(n.pending, s)
}

func sameState(a, b PaneState) bool {
	if a.Settled != b.Settled || a.Err != b.Err || len(a.Panes) != len(b.Panes) {
		return false
	}
	for i := range a.Panes {
		if a.Panes[i] != b.Panes[i] {
			return false
		}
	}
	eq := routepath.ComputeEquality(a.Path, b.Path)
	return eq.SameParams
}
