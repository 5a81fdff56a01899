// Package entity contains domain entities for pane resolution.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// RouteSibling is one pane request inside a route level.
// Siblings after the first in a level are split panes.
type RouteSibling struct {
	ID      string            `json:"id"`
	Params  map[string]string `json:"params,omitempty"`
	Payload any               `json:"payload,omitempty"`
}

// RouteLevel is an ordered group of siblings sharing the same depth.
type RouteLevel []RouteSibling

// RoutePath is the decoded pane request, index 0 being the level right under the root.
type RoutePath []RouteLevel

// FlatLen returns the number of flattened (level, sibling) pairs, root excluded.
func (p RoutePath) FlatLen() int {
	n := 0
	for _, level := range p {
		n += len(level)
	}
	return n
}

// Clone returns a deep copy of the path structure. Payloads are shared.
func (p RoutePath) Clone() RoutePath {
	if p == nil {
		return nil
	}
	out := make(RoutePath, len(p))
	for i, level := range p {
		out[i] = make(RouteLevel, len(level))
		for j, sib := range level {
			out[i][j] = RouteSibling{
				ID:      sib.ID,
				Params:  cloneParams(sib.Params),
				Payload: sib.Payload,
			}
		}
	}
	return out
}

// Locate maps a flat pane index (root = 0) to its level and sibling position.
// ok is false for the root and for indices past the end of the path.
func (p RoutePath) Locate(flatIndex int) (level, sibling int, ok bool) {
	if flatIndex < 1 {
		return 0, 0, false
	}
	remaining := flatIndex - 1
	for l, lvl := range p {
		if remaining < len(lvl) {
			return l, remaining, true
		}
		remaining -= len(lvl)
	}
	return 0, 0, false
}

// FlatIndex maps a level and sibling position to a flat pane index (root = 0).
func (p RoutePath) FlatIndex(level, sibling int) int {
	idx := 1
	for l := 0; l < level && l < len(p); l++ {
		idx += len(p[l])
	}
	return idx + sibling
}

// IDs returns the sibling ids in flat order.
func (p RoutePath) IDs() []string {
	ids := make([]string, 0, p.FlatLen())
	for _, level := range p {
		for _, sib := range level {
			ids = append(ids, sib.ID)
		}
	}
	return ids
}

func cloneParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// RouterState is the shape handed to the router when navigating.
type RouterState struct {
	Panes RoutePath
}

// NavigateOptions controls how the router records a navigation.
type NavigateOptions struct {
	Replace bool
}
