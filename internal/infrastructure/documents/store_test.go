package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/repository/mocks"
	"github.com/bnema/panectl/internal/infrastructure/documents"
	"github.com/bnema/panectl/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestStore_DocumentType_ReadsThroughOnce(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), "ada").Return(&entity.Document{ID: "ada", Type: "author"}, nil).Times(1)

	store := documents.NewStore(ctx, repo, 8)

	for range 3 {
		docType, found, err := store.DocumentType(ctx, "ada")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "author", docType)
	}
}

func TestStore_DocumentType_Unknown(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), "ghost").Return(nil, entity.ErrDocumentNotFound).Times(2)

	store := documents.NewStore(ctx, repo, 8)

	for range 2 {
		_, found, err := store.DocumentType(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, found, "unknown documents are looked up again")
	}
}

func TestStore_DocumentType_RepositoryError(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	boom := errors.New("database is locked")
	repo.EXPECT().Get(gomock.Any(), "x").Return(nil, boom)

	store := documents.NewStore(ctx, repo, 8)
	_, _, err := store.DocumentType(ctx, "x")
	assert.ErrorIs(t, err, boom)
}

func TestStore_PutWritesBehind(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)

	doc := &entity.Document{ID: "sicp", Type: "book", Title: "SICP"}
	repo.EXPECT().Save(gomock.Any(), doc).Return(nil)

	store := documents.NewStore(ctx, repo, 8)
	require.NoError(t, store.Put(doc))

	docType, found, err := store.DocumentType(ctx, "sicp")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "book", docType)

	require.NoError(t, store.Close())
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := documents.NewStore(testCtx(), mocks.NewMockDocumentRepository(ctrl), 8)

	assert.ErrorIs(t, store.Put(&entity.Document{ID: "a|b", Type: "book"}), entity.ErrInvalidDocument)
}

func TestStore_RemoveAndWarm(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)

	repo.EXPECT().List(gomock.Any(), "", 2).Return([]*entity.Document{
		{ID: "ada", Type: "author"},
		{ID: "sicp", Type: "book"},
	}, nil)
	repo.EXPECT().Delete(gomock.Any(), "ada").Return(nil)
	repo.EXPECT().Get(gomock.Any(), "ada").Return(nil, entity.ErrDocumentNotFound)

	store := documents.NewStore(ctx, repo, 2)
	require.NoError(t, store.Warm(ctx))
	recent := store.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "ada", recent[0].ID)
	assert.Equal(t, "sicp", recent[1].ID)

	require.NoError(t, store.Remove("ada"))
	require.NoError(t, store.Close())

	_, found, err := store.DocumentType(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PutThenRemoveReachesRepositoryInOrder(t *testing.T) {
	ctx := testCtx()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)

	doc := &entity.Document{ID: "draft", Type: "note"}
	gomock.InOrder(
		repo.EXPECT().Save(gomock.Any(), doc).DoAndReturn(func(context.Context, *entity.Document) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		}),
		repo.EXPECT().Delete(gomock.Any(), "draft").Return(nil),
	)

	store := documents.NewStore(ctx, repo, 8)
	require.NoError(t, store.Put(doc))
	require.NoError(t, store.Remove("draft"))
	require.NoError(t, store.Close())
}
