package routepath

import "github.com/bnema/panectl/internal/domain/entity"

// DefaultExclusiveParams are the keys a split sibling never inherits from
// the primary sibling of its level.
var DefaultExclusiveParams = []string{"view", "since", "rev"}

// ParamPolicy decides which primary-sibling params a split sibling inherits.
type ParamPolicy struct {
	exclusive map[string]struct{}
}

// NewParamPolicy builds a policy from a list of exclusive keys.
func NewParamPolicy(exclusive []string) ParamPolicy {
	set := make(map[string]struct{}, len(exclusive))
	for _, k := range exclusive {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return ParamPolicy{exclusive: set}
}

// IsExclusive reports whether key is never inherited.
func (p ParamPolicy) IsExclusive(key string) bool {
	_, ok := p.exclusive[key]
	return ok
}

// SiblingParams returns the effective params and payload of level[splitIndex].
// The primary sibling keeps its own values. A split sibling merges the
// primary's non-exclusive params under its own and falls back to the
// primary's payload when it has none.
func (p ParamPolicy) SiblingParams(level entity.RouteLevel, splitIndex int) (map[string]string, any) {
	if splitIndex < 0 || splitIndex >= len(level) {
		return map[string]string{}, nil
	}
	sib := level[splitIndex]
	if splitIndex == 0 {
		return copyParams(sib.Params), sib.Payload
	}

	primary := level[0]
	merged := make(map[string]string, len(primary.Params)+len(sib.Params))
	for k, v := range primary.Params {
		if p.IsExclusive(k) {
			continue
		}
		merged[k] = v
	}
	for k, v := range sib.Params {
		merged[k] = v
	}

	payload := sib.Payload
	if payload == nil {
		payload = primary.Payload
	}
	return merged, payload
}

func copyParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
