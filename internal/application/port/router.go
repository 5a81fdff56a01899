package port

import (
	"context"

	"github.com/bnema/panectl/internal/domain/entity"
)

// Router owns the URL state. The resolver only ever asks it to replace
// the current pane path after truncation or split collapsing.
type Router interface {
	Navigate(ctx context.Context, state entity.RouterState, opts entity.NavigateOptions) error
}

// DocumentTypeLookup is the backend-assisted answer to "what type is document X".
// found is false when the backend does not know the document.
type DocumentTypeLookup interface {
	DocumentType(ctx context.Context, documentID string) (schemaType string, found bool, err error)
}
