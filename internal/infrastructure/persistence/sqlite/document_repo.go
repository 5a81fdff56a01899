package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/repository"
	"github.com/bnema/panectl/internal/logging"
)

const (
	getDocument = `SELECT id, type, title, updated_at FROM documents WHERE id = ?`

	upsertDocument = `INSERT INTO documents (id, type, title, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET type = excluded.type, title = excluded.title, updated_at = excluded.updated_at`

	listDocuments = `SELECT id, type, title, updated_at FROM documents
WHERE (? = '' OR type = ?) ORDER BY updated_at DESC, id LIMIT ?`

	deleteDocument = `DELETE FROM documents WHERE id = ?`
)

type documentRepo struct {
	provider port.DatabaseProvider
	now      func() time.Time
}

// NewDocumentRepository creates a SQLite-backed document repository. The
// connection is obtained from provider on first use.
func NewDocumentRepository(provider port.DatabaseProvider) repository.DocumentRepository {
	return &documentRepo{provider: provider, now: time.Now}
}

func (r *documentRepo) Get(ctx context.Context, id string) (*entity.Document, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("id", id).Msg("getting document")

	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := scanDocument(db.QueryRowContext(ctx, getDocument, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", id, err)
	}
	return doc, nil
}

func (r *documentRepo) Save(ctx context.Context, doc *entity.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = r.now()
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("id", doc.ID).Str("type", doc.Type).Msg("saving document")

	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertDocument, doc.ID, doc.Type, doc.Title, doc.UpdatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("save document %q: %w", doc.ID, err)
	}
	return nil
}

func (r *documentRepo) List(ctx context.Context, docType string, limit int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, listDocuments, docType, docType, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, deleteDocument, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var (
		doc       entity.Document
		updatedAt int64
	)
	if err := row.Scan(&doc.ID, &doc.Type, &doc.Title, &updatedAt); err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &doc, nil
}
