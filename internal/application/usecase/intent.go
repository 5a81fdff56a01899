package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/logging"
)

const (
	IntentCreate = "create"
	IntentEdit   = "edit"
)

// IntentInput is a high-level navigation request such as "edit document X".
type IntentInput struct {
	Intent  string
	Params  map[string]string
	Path    entity.RoutePath // the currently routed panes
	Payload any
}

// IntentState is the outcome of the fast path. When Resolved is false the
// intent is handed back untouched and the backend path must answer it.
type IntentState struct {
	Resolved bool
	Panes    entity.RoutePath

	Intent  string
	Params  map[string]string
	Payload any
}

// IntentUseCase opens intents against the currently active panes.
type IntentUseCase struct {
	panes    *ActivePanes
	fallback *FallbackEditor
	lookup   port.DocumentTypeLookup
	newID    func() string
	group    singleflight.Group
}

// NewIntentUseCase creates the intent resolver. newID generates ids for new
// documents and defaults to random UUIDs. lookup may be nil, in which case
// the backend path relies on the intent params alone.
func NewIntentUseCase(
	panes *ActivePanes,
	fallback *FallbackEditor,
	lookup port.DocumentTypeLookup,
	newID func() string,
) *IntentUseCase {
	if newID == nil {
		newID = uuid.NewString
	}
	if fallback == nil {
		fallback = NewFallbackEditor("", nil)
	}
	return &IntentUseCase{
		panes:    panes,
		fallback: fallback,
		lookup:   lookup,
		newID:    newID,
	}
}

// GetIntentState scans the active panes innermost first for one that can
// handle the intent, and if found returns the current path cut after that
// pane's level with a new trailing level editing the document.
func (uc *IntentUseCase) GetIntentState(ctx context.Context, in IntentInput) IntentState {
	log := logging.FromContext(ctx)
	unresolved := IntentState{Intent: in.Intent, Params: in.Params, Payload: in.Payload}

	editID := in.Params["id"]
	if editID == "" {
		editID = uc.newID()
	}

	active := uc.panes.Snapshot()
	for i := len(active) - 1; i >= 0; i-- {
		pane := active[i]
		if pane == nil || entity.IsLoading(pane) {
			continue
		}
		if !canHandleIntent(pane, i, in) {
			continue
		}

		params := map[string]string{}
		if in.Intent == IntentCreate && in.Params["template"] != "" {
			params["template"] = in.Params["template"]
		}

		panes := keepLevelsThrough(in.Path, i)
		panes = append(panes, entity.RouteLevel{{ID: editID, Params: params, Payload: in.Payload}})

		log.Debug().
			Str("intent", in.Intent).
			Str("pane_id", pane.ID).
			Int("flat_index", i).
			Msg("intent handled by active pane")
		return IntentState{Resolved: true, Panes: panes}
	}

	log.Debug().Str("intent", in.Intent).Msg("no active pane can handle intent")
	return unresolved
}

func canHandleIntent(pane *entity.Node, index int, in IntentInput) bool {
	if pane.CanHandleIntent != nil && pane.CanHandleIntent(in.Intent, in.Params, entity.IntentContext{Pane: pane, Index: index}) {
		return true
	}
	return pane.Type == entity.NodeTypeDocumentList &&
		pane.SchemaType != "" &&
		pane.SchemaType == in.Params["type"]
}

// keepLevelsThrough returns the levels of path up to and including the one
// holding flat index i. Without splits this is path[:i].
func keepLevelsThrough(path entity.RoutePath, i int) entity.RoutePath {
	if i <= 0 {
		return entity.RoutePath{}
	}
	keep := min(i, len(path))
	if level, _, ok := path.Locate(i); ok {
		keep = level + 1
	}
	return path[:keep].Clone()
}

// ResolveFallback answers an unresolved intent with a fallback editor pane,
// asking the backend for the document type when the id is known.
// Concurrent lookups for the same document share one backend call.
func (uc *IntentUseCase) ResolveFallback(ctx context.Context, state IntentState) (entity.RoutePath, error) {
	log := logging.FromContext(ctx)

	id := state.Params["id"]
	docType := state.Params["type"]
	if id == "" {
		id = uc.newID()
	} else if uc.lookup != nil {
		v, err, _ := uc.group.Do(id, func() (any, error) {
			t, found, err := uc.lookup.DocumentType(ctx, id)
			if err != nil || !found {
				return "", err
			}
			return t, nil
		})
		if err != nil {
			return nil, fmt.Errorf("look up type of document %q: %w", id, err)
		}
		if t, _ := v.(string); t != "" {
			docType = t
		} else {
			log.Debug().Str("document_id", id).Msg("backend does not know document, using intent type")
		}
	}

	params := map[string]string{}
	if docType != "" {
		params["type"] = docType
	}
	if tpl := state.Params["template"]; tpl != "" {
		params["template"] = tpl
	}

	return entity.RoutePath{{{
		ID:      uc.fallback.PaneID(id),
		Params:  params,
		Payload: state.Payload,
	}}}, nil
}
