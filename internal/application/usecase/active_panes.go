package usecase

import (
	"sync"

	"github.com/bnema/panectl/internal/domain/entity"
)

// ActivePanes holds the last flat pane list seen by the consumer that owns it.
// It is replaced wholesale on every emission and read only by intent lookups.
type ActivePanes struct {
	mu    sync.RWMutex
	panes entity.FlatPaneList
	owned bool
}

// NewActivePanes creates an empty registry.
func NewActivePanes() *ActivePanes {
	return &ActivePanes{}
}

// Register marks the owning view as mounted and clears stale panes.
func (a *ActivePanes) Register() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panes = entity.FlatPaneList{}
	a.owned = true
}

// Unregister marks the owning view as unmounted and clears the panes.
func (a *ActivePanes) Unregister() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panes = entity.FlatPaneList{}
	a.owned = false
}

// Registered reports whether an owning view is mounted.
func (a *ActivePanes) Registered() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.owned
}

// Set replaces the active panes with list.
func (a *ActivePanes) Set(list entity.FlatPaneList) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panes = list.Clone()
}

// Snapshot returns a copy of the active panes.
func (a *ActivePanes) Snapshot() entity.FlatPaneList {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.panes.Clone()
}
