package entity

import "context"

// NodeType identifies the shape of a resolved structure node.
type NodeType string

const (
	NodeTypeList         NodeType = "list"
	NodeTypeDocumentList NodeType = "documentList"
	NodeTypeDocument     NodeType = "document"
	NodeTypeComponent    NodeType = "component"
	NodeTypeLoading      NodeType = "loading"
)

// ChildResolver answers "what comes next" for an item id under a node.
type ChildResolver func(ctx context.Context, itemID string, rc ResolutionContext) ChildResult

// IntentContext is passed to intent capability checks.
type IntentContext struct {
	Pane  *Node
	Index int
}

// IntentHandler reports whether a pane can open the given intent.
type IntentHandler func(intent string, params map[string]string, ic IntentContext) bool

// DocumentOptions carries the editor fields of a document node.
type DocumentOptions struct {
	ID                 string         `json:"id"`
	Type               string         `json:"type,omitempty"`
	Template           string         `json:"template,omitempty"`
	TemplateParameters map[string]any `json:"templateParameters,omitempty"`
}

// Node is a resolved structure node. Only ID and Type are required;
// the remaining fields depend on the node type.
type Node struct {
	ID         string
	Type       NodeType
	Title      string
	SchemaType string // declared type of a document collection
	Options    *DocumentOptions

	Child           ChildResolver // nil: the node has no children
	CanHandleIntent IntentHandler
}

// ResolutionContext is handed to every child resolution call.
type ResolutionContext struct {
	Parent     *Node
	Path       []string
	Index      int // flat position, root = 0
	SplitIndex int // position inside the level, 0 for the primary sibling
	Params     map[string]string
	Payload    any
}

// Loading stands in for a slot whose node is not resolved yet.
var Loading = &Node{ID: "__loading__", Type: NodeTypeLoading}

// IsLoading reports whether n is the loading sentinel.
func IsLoading(n *Node) bool {
	return n == Loading
}

// FlatPaneList is [root, ...entries], one entry per flattened route sibling.
type FlatPaneList []*Node

// HasLoading reports whether any slot is still pending.
func (l FlatPaneList) HasLoading() bool {
	return l.FirstLoading() >= 0
}

// FirstLoading returns the index of the first pending slot, or -1.
func (l FlatPaneList) FirstLoading() int {
	for i, n := range l {
		if IsLoading(n) {
			return i
		}
	}
	return -1
}

// Clone returns a shallow copy of the list; nodes are shared.
func (l FlatPaneList) Clone() FlatPaneList {
	if l == nil {
		return nil
	}
	out := make(FlatPaneList, len(l))
	copy(out, l)
	return out
}

// IDs returns node ids in order, with "…" for loading slots.
func (l FlatPaneList) IDs() []string {
	ids := make([]string, len(l))
	for i, n := range l {
		switch {
		case IsLoading(n):
			ids[i] = "…"
		case n == nil:
			ids[i] = ""
		default:
			ids[i] = n.ID
		}
	}
	return ids
}
