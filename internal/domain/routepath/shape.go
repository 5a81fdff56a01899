package routepath

import "github.com/bnema/panectl/internal/domain/entity"

// TruncateFlat keeps only the first n flattened siblings of path.
// A level cut in the middle keeps its leading siblings.
func TruncateFlat(path entity.RoutePath, n int) entity.RoutePath {
	if n <= 0 {
		return entity.RoutePath{}
	}
	out := make(entity.RoutePath, 0, len(path))
	for _, level := range path.Clone() {
		if n <= 0 {
			break
		}
		if len(level) > n {
			level = level[:n]
		}
		out = append(out, level)
		n -= len(level)
	}
	return out
}

// CollapseSplits limits every level to at most maxSiblings siblings.
// changed is false when the path already fits.
func CollapseSplits(path entity.RoutePath, maxSiblings int) (collapsed entity.RoutePath, changed bool) {
	if maxSiblings < 1 {
		maxSiblings = 1
	}
	out := path.Clone()
	for i, level := range out {
		if len(level) > maxSiblings {
			out[i] = level[:maxSiblings]
			changed = true
		}
	}
	return out, changed
}
