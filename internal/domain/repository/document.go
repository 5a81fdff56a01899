package repository

import (
	"context"

	"github.com/bnema/panectl/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_document.go -package=mocks . DocumentRepository

// DocumentRepository defines operations for document persistence.
type DocumentRepository interface {
	// Get retrieves a document by id.
	// Returns entity.ErrDocumentNotFound if no such document exists.
	Get(ctx context.Context, id string) (*entity.Document, error)

	// Save inserts or updates a document.
	Save(ctx context.Context, doc *entity.Document) error

	// List returns documents of one type, newest first. An empty docType lists all.
	List(ctx context.Context, docType string, limit int) ([]*entity.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}
