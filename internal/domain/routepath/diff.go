// Package routepath holds the pure algorithms that operate on route paths:
// diffing, equality, sibling parameter inheritance, reshaping and the URL
// segment codec.
package routepath

import (
	"reflect"

	"github.com/bnema/panectl/internal/domain/entity"
)

// DiffPoint is the earliest [level, sibling] position at which two paths disagree.
type DiffPoint struct {
	Level   int
	Sibling int
}

// Origin is the diff point that forces a full re-resolution.
var Origin = DiffPoint{}

// ComputeDiffPoint returns where next stops agreeing with prev.
// ok is false when the two paths request the same pane identities.
//
// A level that lost siblings is re-resolved from its first sibling so no
// pane resolves against the context of a removed sibling.
func ComputeDiffPoint(next, prev entity.RoutePath) (DiffPoint, bool) {
	if len(next) == 0 {
		return Origin, true
	}

	levels := max(len(next), len(prev))
	for l := 0; l < levels; l++ {
		if l >= len(next) || l >= len(prev) {
			return DiffPoint{Level: l}, true
		}
		nextLevel, prevLevel := next[l], prev[l]
		if len(prevLevel) > len(nextLevel) {
			return DiffPoint{Level: l}, true
		}
		for s := range nextLevel {
			if s >= len(prevLevel) || nextLevel[s].ID != prevLevel[s].ID {
				return DiffPoint{Level: l, Sibling: s}, true
			}
		}
	}
	return DiffPoint{}, false
}

// FlatIndex maps a diff point to the flat pane index it starts at (root = 0).
func FlatIndex(path entity.RoutePath, dp DiffPoint) int {
	return path.FlatIndex(dp.Level, dp.Sibling)
}

// Equality separates identity changes from parameter-only changes.
type Equality struct {
	SameIDs    bool
	SameParams bool
}

// ComputeEquality compares two paths sibling by sibling.
// SameParams implies SameIDs.
func ComputeEquality(prev, next entity.RoutePath) Equality {
	if len(prev) != len(next) {
		return Equality{}
	}
	for l := range prev {
		if len(prev[l]) != len(next[l]) {
			return Equality{}
		}
	}

	eq := Equality{SameIDs: true, SameParams: true}
	for l := range prev {
		for s := range prev[l] {
			a, b := prev[l][s], next[l][s]
			if a.ID != b.ID {
				return Equality{}
			}
			if eq.SameParams && (!paramsEqual(a.Params, b.Params) || !reflect.DeepEqual(a.Payload, b.Payload)) {
				eq.SameParams = false
			}
		}
	}
	return eq
}

// paramsEqual treats nil and empty maps as equal.
func paramsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
