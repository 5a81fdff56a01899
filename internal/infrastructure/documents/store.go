// Package documents keeps a bounded in-memory index of stored documents in
// front of the document repository.
package documents

import (
	"context"
	"errors"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/cache/generic"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/repository"
)

// Store answers document type lookups from memory and writes behind to the
// repository.
type Store struct {
	cache *generic.GenericCache[string, *entity.Document]
}

// NewStore creates a store holding at most capacity documents in memory.
func NewStore(ctx context.Context, repo repository.DocumentRepository, capacity int) *Store {
	return &Store{
		cache: generic.NewGenericCache[string, *entity.Document](ctx, &repoOps{repo: repo, limit: capacity}, capacity),
	}
}

// Warm preloads the most recently updated documents.
func (s *Store) Warm(ctx context.Context) error {
	return s.cache.Load(ctx)
}

// DocumentType implements port.DocumentTypeLookup.
func (s *Store) DocumentType(ctx context.Context, id string) (string, bool, error) {
	doc, found, err := s.cache.GetOrFetch(ctx, id)
	if err != nil || !found {
		return "", false, err
	}
	return doc.Type, true, nil
}

// Put records doc. The repository write happens in the background; Close
// waits for it.
func (s *Store) Put(doc *entity.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	return s.cache.Set(doc.ID, doc)
}

// Remove forgets the document with id.
func (s *Store) Remove(id string) error {
	return s.cache.Delete(id)
}

// Recent returns the cached documents, most recently used first.
func (s *Store) Recent() []*entity.Document {
	return s.cache.List()
}

// Close waits for pending repository writes.
func (s *Store) Close() error {
	return s.cache.Flush()
}

type repoOps struct {
	repo  repository.DocumentRepository
	limit int
}

// LoadAll lists documents newest first, the order the cache keeps them in.
func (o *repoOps) LoadAll(ctx context.Context) ([]generic.Entry[string, *entity.Document], error) {
	docs, err := o.repo.List(ctx, "", o.limit)
	if err != nil {
		return nil, err
	}
	out := make([]generic.Entry[string, *entity.Document], 0, len(docs))
	for _, d := range docs {
		out = append(out, generic.Entry[string, *entity.Document]{Key: d.ID, Value: d})
	}
	return out, nil
}

func (o *repoOps) Fetch(ctx context.Context, id string) (*entity.Document, bool, error) {
	doc, err := o.repo.Get(ctx, id)
	if errors.Is(err, entity.ErrDocumentNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (o *repoOps) Persist(ctx context.Context, _ string, doc *entity.Document) error {
	return o.repo.Save(ctx, doc)
}

func (o *repoOps) Delete(ctx context.Context, id string) error {
	return o.repo.Delete(ctx, id)
}

var _ port.DocumentTypeLookup = (*Store)(nil)
