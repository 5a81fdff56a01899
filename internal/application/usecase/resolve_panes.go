package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/logging"
)

const (
	// slotEventBuffer absorbs bursts from several producers while the run loop emits.
	slotEventBuffer = 16

	noChildHelpURL = "https://github.com/bnema/panectl/blob/main/docs/structure.md#pane-returned-no-child"
)

var (
	// ErrNoChild is logged when a node has no child where the path expects one.
	ErrNoChild = errors.New("pane returned no child")

	// ErrStructureUnavailable is returned when the structure root cannot be resolved.
	ErrStructureUnavailable = errors.New("structure root unavailable")
)

// PaneResolutionError scopes a resolution failure to one flat slot.
type PaneResolutionError struct {
	Index  int
	PaneID string
	Err    error
}

func (e *PaneResolutionError) Error() string {
	return fmt.Sprintf("resolve pane %q at index %d: %v", e.PaneID, e.Index, e.Err)
}

func (e *PaneResolutionError) Unwrap() error {
	return e.Err
}

// PaneUpdate is one emission of a resolution run.
type PaneUpdate struct {
	Panes      entity.FlatPaneList
	Settled    bool   // no loading slots remain
	Err        error  // terminal for the run when set
	Generation uint64 // generation of the path this list answers
}

// ResolveInput starts a resolution run.
type ResolveInput struct {
	Path       entity.RoutePath
	Previous   entity.FlatPaneList // panes carried over before From
	From       routepath.DiffPoint
	Generation uint64
}

// ResolvePanesUseCase turns route paths into live flat pane lists.
type ResolvePanesUseCase struct {
	structure port.StructureSource
	params    routepath.ParamPolicy
	fallback  *FallbackEditor
}

// NewResolvePanesUseCase creates the pane resolution engine.
// fallback may be nil to disable fallback editor synthesis.
func NewResolvePanesUseCase(
	structure port.StructureSource,
	params routepath.ParamPolicy,
	fallback *FallbackEditor,
) *ResolvePanesUseCase {
	return &ResolvePanesUseCase{
		structure: structure,
		params:    params,
		fallback:  fallback,
	}
}

// Execute runs a resolution and returns its emissions. The channel closes
// once no slot can change anymore, on a resolution error, or when ctx is done.
func (uc *ResolvePanesUseCase) Execute(ctx context.Context, input ResolveInput) <-chan PaneUpdate {
	return uc.Start(ctx, input).Updates()
}

// Start begins a run that can later be re-entered with Reroute.
func (uc *ResolvePanesUseCase) Start(ctx context.Context, input ResolveInput) *PaneRun {
	r := &PaneRun{
		uc:       uc,
		ctx:      logging.WithComponent(ctx, "resolver"),
		out:      make(chan PaneUpdate),
		events:   make(chan slotEvent, slotEventBuffer),
		reroutes: make(chan ResolveInput),
		params:   make(chan entity.RoutePath),
		done:     make(chan struct{}),
	}
	go r.loop(input)
	return r
}

// PaneRun is a live resolution. All slot state is owned by its loop goroutine;
// producers only send stamped events into it.
type PaneRun struct {
	uc  *ResolvePanesUseCase
	ctx context.Context

	out      chan PaneUpdate
	events   chan slotEvent
	reroutes chan ResolveInput
	params   chan entity.RoutePath
	done     chan struct{}

	// loop-owned state
	path       entity.RoutePath
	generation uint64
	slots      entity.FlatPaneList
	stamps     []uint64
	cancels    []context.CancelFunc
	limit      int // emitted prefix of slots
	nextStamp  uint64
	live       int
	pending    []PaneUpdate
	failed     bool
}

type slotEvent struct {
	index  int
	stamp  uint64
	node   *entity.Node
	err    error
	closed bool
	seen   bool // closed: the producer delivered at least one event
}

// Updates returns the emission channel.
func (r *PaneRun) Updates() <-chan PaneUpdate {
	return r.out
}

// Done is closed when the run loop has exited.
func (r *PaneRun) Done() <-chan struct{} {
	return r.done
}

// Reroute re-enters the run at input.From for a new path. Slots before the
// diff point keep their nodes and live producers; everything at and after
// it is cancelled and resolved again. It returns false if the run already
// ended, in which case the caller must start a new one.
func (r *PaneRun) Reroute(input ResolveInput) bool {
	select {
	case r.reroutes <- input:
		return true
	case <-r.done:
		return false
	}
}

// UpdateParams swaps in path, which must have the same ids as the current
// one, without touching any slot. Slots resolved later, for instance after
// a stream re-emits upstream, see the new params and payloads. It returns
// false if the run already ended.
func (r *PaneRun) UpdateParams(path entity.RoutePath) bool {
	select {
	case r.params <- path:
		return true
	case <-r.done:
		return false
	}
}

func (r *PaneRun) loop(input ResolveInput) {
	defer close(r.done)
	defer close(r.out)
	defer r.cancelFrom(0)

	log := logging.FromContext(r.ctx)

	root, err := r.resolveRoot(input)
	if err != nil {
		log.Error().Err(err).Msg("structure root unavailable")
		r.generation = input.Generation
		r.failed = true
		r.enqueue(PaneUpdate{
			Err:        &PaneResolutionError{Index: 0, PaneID: "root", Err: err},
			Generation: input.Generation,
		})
	} else {
		r.slots = entity.FlatPaneList{root}
		r.stamps = []uint64{0}
		r.cancels = []context.CancelFunc{nil}
		r.limit = 1
		r.reroute(input, input.Previous)
	}

	for {
		if len(r.pending) == 0 && (r.live == 0 || r.failed) {
			return
		}

		var out chan PaneUpdate
		var next PaneUpdate
		if len(r.pending) > 0 {
			out = r.out
			next = r.pending[0]
		}
		reroutes, params := r.reroutes, r.params
		if r.failed {
			// a failed run drains and ends; Reroute then reports false
			reroutes, params = nil, nil
		}

		select {
		case <-r.ctx.Done():
			return
		case out <- next:
			r.pending = r.pending[1:]
		case req := <-reroutes:
			r.reroute(req, r.slots[:r.limit])
		case p := <-params:
			r.updateParams(p)
		case ev := <-r.events:
			r.handle(ev)
		}
	}
}

func (r *PaneRun) resolveRoot(input ResolveInput) (*entity.Node, error) {
	start := routepath.FlatIndex(input.Path, input.From)
	if start > 1 && len(input.Previous) > 0 && input.Previous[0] != nil && !entity.IsLoading(input.Previous[0]) {
		return input.Previous[0], nil
	}
	if r.uc.structure == nil {
		return nil, ErrStructureUnavailable
	}
	root, err := r.uc.structure.Root(r.ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructureUnavailable, err)
	}
	if root == nil {
		return nil, ErrStructureUnavailable
	}
	return root, nil
}

// reroute seeds the slots for a new path, carrying over previous[1:start)
// verbatim, and starts resolving the first loading slot.
func (r *PaneRun) reroute(input ResolveInput, previous entity.FlatPaneList) {
	total := 1 + input.Path.FlatLen()
	start := routepath.FlatIndex(input.Path, input.From)
	start = min(start, total, max(len(previous), 1))
	if first := previous.FirstLoading(); first >= 1 && first < start {
		start = first
	}
	for i := 1; i < start; i++ {
		if previous[i] == nil {
			start = i
			break
		}
	}
	start = max(start, 1)

	r.cancelFrom(start)

	slots := make(entity.FlatPaneList, total)
	stamps := make([]uint64, total)
	cancels := make([]context.CancelFunc, total)
	slots[0] = r.slots[0]
	for i := 1; i < total; i++ {
		if i < start {
			slots[i] = previous[i]
			if i < len(r.stamps) {
				stamps[i] = r.stamps[i]
				cancels[i] = r.cancels[i]
			}
			continue
		}
		slots[i] = entity.Loading
	}

	r.path = input.Path
	r.generation = input.Generation
	r.slots = slots
	r.stamps = stamps
	r.cancels = cancels
	r.limit = total

	logging.FromContext(r.ctx).Debug().
		Uint64("generation", r.generation).
		Int("start", start).
		Int("total", total).
		Msg("resolving panes")

	r.emit()
	if start < total {
		r.startSlot(start)
	}
}

func (r *PaneRun) updateParams(p entity.RoutePath) {
	if !routepath.ComputeEquality(r.path, p).SameIDs {
		logging.FromContext(r.ctx).Warn().Msg("ignoring params update for a different path")
		return
	}
	r.path = p
}

func (r *PaneRun) handle(ev slotEvent) {
	if ev.closed {
		r.live--
	}
	if r.failed || ev.index >= len(r.stamps) || ev.stamp != r.stamps[ev.index] {
		return
	}

	k := ev.index
	if ev.closed {
		if r.cancels[k] != nil {
			r.cancels[k]()
			r.cancels[k] = nil
		}
		if !ev.seen && entity.IsLoading(r.slots[k]) {
			// a stream that completes without a value has no child to offer
			r.exhaust(k)
		}
		return
	}

	if ev.err != nil {
		sib := r.sibling(k)
		err := &PaneResolutionError{Index: k, PaneID: sib.ID, Err: ev.err}
		logging.FromContext(r.ctx).Error().Err(ev.err).
			Int("flat_index", k).
			Str("pane_id", sib.ID).
			Msg("pane resolution failed")
		r.failed = true
		r.cancelFrom(0)
		r.enqueue(PaneUpdate{Panes: r.snapshot(), Err: err, Generation: r.generation})
		return
	}

	if ev.node == nil {
		r.exhaust(k)
		return
	}

	// A new value at slot k re-enters the chain right after it.
	r.cancelFrom(k + 1)
	r.slots[k] = ev.node
	for j := k + 1; j < len(r.slots); j++ {
		r.slots[j] = entity.Loading
		r.stamps[j] = 0
	}
	r.limit = len(r.slots)
	r.emit()
	if k+1 < len(r.slots) {
		r.startSlot(k + 1)
	}
}

// exhaust truncates the list at slot k after a node produced no child for it.
func (r *PaneRun) exhaust(k int) {
	sib := r.sibling(k)
	logging.FromContext(r.ctx).Warn().
		Err(ErrNoChild).
		Int("flat_index", k).
		Str("pane_id", sib.ID).
		Str("help", noChildHelpURL).
		Msg("Pane returned no child")

	r.cancelFrom(k)
	for j := k; j < len(r.slots); j++ {
		r.slots[j] = entity.Loading
		r.stamps[j] = 0
	}
	r.limit = k
	r.emit()
}

func (r *PaneRun) startSlot(k int) {
	level, sib, ok := r.path.Locate(k)
	if !ok {
		return
	}
	sibling := r.path[level][sib]
	params, payload := r.uc.params.SiblingParams(r.path[level], sib)
	parentIndex := r.path.FlatIndex(level, 0) - 1
	parent := r.slots[parentIndex]

	rc := entity.ResolutionContext{
		Parent:     parent,
		Path:       r.path.IDs()[:k],
		Index:      k,
		SplitIndex: sib,
		Params:     params,
		Payload:    payload,
	}

	r.nextStamp++
	stamp := r.nextStamp
	slotCtx, cancel := context.WithCancel(logging.WithFlatIndex(r.ctx, k, sibling.ID))
	r.stamps[k] = stamp
	r.cancels[k] = cancel
	r.live++

	var events <-chan ChildEvent
	if r.uc.fallback != nil && r.uc.fallback.Matches(sibling.ID) {
		events = single(r.uc.fallback.Synthesize(sibling.ID, params, payload))
	} else {
		events = ResolveChild(slotCtx, parent, sibling.ID, rc)
	}

	go r.forward(k, stamp, events)
}

// forward relays a producer's events into the run loop, stamped with the
// slot generation they belong to.
func (r *PaneRun) forward(index int, stamp uint64, events <-chan ChildEvent) {
	seen := false
	for ev := range events {
		seen = true
		select {
		case r.events <- slotEvent{index: index, stamp: stamp, node: ev.Node, err: ev.Err}:
		case <-r.done:
			return
		}
	}
	select {
	case r.events <- slotEvent{index: index, stamp: stamp, closed: true, seen: seen}:
	case <-r.done:
	}
}

func (r *PaneRun) cancelFrom(k int) {
	for j := k; j < len(r.cancels); j++ {
		if r.cancels[j] != nil {
			r.cancels[j]()
			r.cancels[j] = nil
		}
	}
}

func (r *PaneRun) sibling(k int) entity.RouteSibling {
	if level, sib, ok := r.path.Locate(k); ok {
		return r.path[level][sib]
	}
	return entity.RouteSibling{}
}

func (r *PaneRun) snapshot() entity.FlatPaneList {
	return r.slots[:r.limit].Clone()
}

func (r *PaneRun) emit() {
	panes := r.snapshot()
	r.enqueue(PaneUpdate{
		Panes:      panes,
		Settled:    !panes.HasLoading(),
		Generation: r.generation,
	})
}

func (r *PaneRun) enqueue(u PaneUpdate) {
	r.pending = append(r.pending, u)
}

func single(n *entity.Node) <-chan ChildEvent {
	ch := make(chan ChildEvent, 1)
	ch <- ChildEvent{Node: n}
	close(ch)
	return ch
}
