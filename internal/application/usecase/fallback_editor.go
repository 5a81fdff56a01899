package usecase

import (
	"strings"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
)

// DefaultFallbackPrefix marks a pane id as "edit this document without a structure node".
const DefaultFallbackPrefix = "__edit__"

// FallbackEditor synthesizes document editor panes for reserved pane ids.
type FallbackEditor struct {
	prefix    string
	templates port.TemplateLookup
}

// NewFallbackEditor creates a synthesizer. An empty prefix uses DefaultFallbackPrefix.
// templates may be nil, in which case a template never implies a type.
func NewFallbackEditor(prefix string, templates port.TemplateLookup) *FallbackEditor {
	if prefix == "" {
		prefix = DefaultFallbackPrefix
	}
	return &FallbackEditor{prefix: prefix, templates: templates}
}

// Prefix returns the reserved pane-id prefix.
func (f *FallbackEditor) Prefix() string {
	return f.prefix
}

// Matches reports whether id uses the reserved prefix.
func (f *FallbackEditor) Matches(id string) bool {
	return strings.HasPrefix(id, f.prefix)
}

// PaneID returns the reserved pane id for a document id.
func (f *FallbackEditor) PaneID(documentID string) string {
	return f.prefix + documentID
}

// Synthesize builds the editor node for a reserved sibling. The node has
// no child resolver, so it always ends the chain.
func (f *FallbackEditor) Synthesize(id string, params map[string]string, payload any) *entity.Node {
	docType := params["type"]
	template := params["template"]
	if docType == "" && template != "" && f.templates != nil {
		if t, ok := f.templates.TemplateType(template); ok {
			docType = t
		}
	}

	opts := &entity.DocumentOptions{
		ID:       strings.TrimPrefix(id, f.prefix),
		Type:     docType,
		Template: template,
	}
	if m, ok := payload.(map[string]any); ok {
		opts.TemplateParameters = m
	}

	return &entity.Node{
		ID:      id,
		Type:    entity.NodeTypeDocument,
		Title:   "Editor",
		Options: opts,
	}
}
