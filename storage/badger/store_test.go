package badger

import (
	"context"
	"testing"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.VectorStore {
	t.Helper()
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(t *testing.T, userID, chunkText string, fill float32) *core.VectorRecord {
	t.Helper()
	md, err := core.NewTextMetadata(
		core.Scope{UserID: userID, Visibility: core.VisibilityPrivate},
		chunkText,
		core.TextInfo{ContextID: "ctx"},
	)
	require.NoError(t, err)

	vec := make([]float32, core.EmbeddingDim)
	for i := range vec {
		vec[i] = fill
	}
	rec, err := core.NewVectorRecord(vec, md)
	require.NoError(t, err)
	return rec
}

func TestStore_PutAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	near := testRecord(t, "u1", "near the query", 0.1)
	far := testRecord(t, "u1", "far from the query", 0.9)
	require.NoError(t, store.Put(ctx, near, far))

	query := make([]float32, core.EmbeddingDim)
	for i := range query {
		query[i] = 0.1
	}

	matches, err := store.Query(ctx, storage.QueryParams{Vector: query, TopK: 2})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, near.Key, matches[0].Record.Key)
	assert.Equal(t, far.Key, matches[1].Record.Key)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
	assert.Equal(t, "near the query", matches[0].Record.Metadata.ChunkText)
}

func TestStore_QueryFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mine := testRecord(t, "u1", "belongs to me", 0.2)
	theirs := testRecord(t, "u2", "belongs to someone else", 0.2)
	require.NoError(t, store.Put(ctx, mine, theirs))

	query := make([]float32, core.EmbeddingDim)
	matches, err := store.Query(ctx, storage.QueryParams{
		Vector: query,
		TopK:   10,
		Filter: storage.Filter{"user_id": "u1"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, mine.Key, matches[0].Record.Key)
}

func TestStore_QueryFilterMissingField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	md, err := core.NewNoteMetadata("public platform note", core.NoteInfo{Category: core.NoteCategoryHelp})
	require.NoError(t, err)
	rec, err := core.NewVectorRecord(make([]float32, core.EmbeddingDim), md)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, rec))

	// Public records have no user_id field, so a user filter excludes them.
	matches, err := store.Query(ctx, storage.QueryParams{
		Vector: make([]float32, core.EmbeddingDim),
		TopK:   10,
		Filter: storage.Filter{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_QueryTopK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := testRecord(t, "u1", "record number "+string(rune('a'+i)), float32(i)*0.1)
		require.NoError(t, store.Put(ctx, rec))
	}

	matches, err := store.Query(ctx, storage.QueryParams{
		Vector: make([]float32, core.EmbeddingDim),
		TopK:   3,
	})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestStore_QueryValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Query(ctx, storage.QueryParams{Vector: make([]float32, 7), TopK: 1})
	assert.ErrorIs(t, err, storage.ErrBadQuery)

	_, err = store.Query(ctx, storage.QueryParams{Vector: make([]float32, core.EmbeddingDim), TopK: 0})
	assert.ErrorIs(t, err, storage.ErrBadQuery)
}

func TestStore_PutRejectsBadDimensions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(t, "u1", "valid record", 0.5)
	rec.Embedding = make([]float32, 12)

	err := store.Put(ctx, rec)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestStore_PutOverwritesSameKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(t, "u1", "original text", 0.3)
	require.NoError(t, store.Put(ctx, rec))

	md, err := core.NewTextMetadata(
		core.Scope{UserID: "u1", Visibility: core.VisibilityPrivate},
		"updated text",
		core.TextInfo{ContextID: "ctx"},
	)
	require.NoError(t, err)
	rec.Metadata = md
	require.NoError(t, store.Put(ctx, rec))

	matches, err := store.Query(ctx, storage.QueryParams{
		Vector: make([]float32, core.EmbeddingDim),
		TopK:   10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "updated text", matches[0].Record.Metadata.ChunkText)
}
