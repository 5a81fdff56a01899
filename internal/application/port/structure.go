package port

import (
	"context"

	"github.com/bnema/panectl/internal/domain/entity"
)

// StructureSource supplies the root of the view-definition tree.
// Root may block while the tree is being loaded.
type StructureSource interface {
	Root(ctx context.Context) (*entity.Node, error)
}

// TemplateLookup resolves the document type a named template creates.
type TemplateLookup interface {
	TemplateType(templateID string) (string, bool)
}
