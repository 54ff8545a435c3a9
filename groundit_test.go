package groundit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/ai/mock"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/ingestion"
	"github.com/poiesic/groundit/search"
	"github.com/poiesic/groundit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, judge, generator *mock.MockCompleter) *Engine {
	t.Helper()

	store, err := badger.OpenMemoryStore()
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), judge, generator)

	engine, err := NewEngine(store, provider,
		WithIngestionOptions(ingestion.WithEmbedInterval(time.Millisecond)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestEngine_IngestAndQuery(t *testing.T) {
	judge := mock.NewMockCompleter()
	judge.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompleteParams) (string, error) {
		if strings.Contains(prompt, "return window") {
			return "9", nil
		}
		return "1", nil
	}
	generator := mock.NewMockCompleter()
	generator.DefaultResponse = "Returns are accepted for thirty days."

	engine := newTestEngine(t, judge, generator)
	ctx := context.Background()

	result, err := engine.Ingest(ctx, "u1",
		"The return window is thirty days from the delivery date.")
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewVectors)

	answer, err := engine.Query(ctx, "u1", "How long do I have to return an item?")
	require.NoError(t, err)
	assert.Equal(t, "Returns are accepted for thirty days.", answer)
}

func TestEngine_QueryIsolatedPerUser(t *testing.T) {
	generator := mock.NewMockCompleter()
	generator.DefaultResponse = "leaked"

	judge := mock.NewMockCompleter()
	judge.DefaultResponse = "9"

	engine := newTestEngine(t, judge, generator)
	ctx := context.Background()

	_, err := engine.Ingest(ctx, "u1",
		"The return window is thirty days from the delivery date.")
	require.NoError(t, err)

	answer, err := engine.Query(ctx, "u2", "How long do I have to return an item?")
	require.NoError(t, err)
	assert.Equal(t, search.FallbackAnswer, answer)
}

func TestEngine_RepeatedIngestAddsNothing(t *testing.T) {
	engine := newTestEngine(t, mock.NewMockCompleter(), mock.NewMockCompleter())
	ctx := context.Background()

	content := "Loyalty points expire after eighteen months of inactivity."

	first, err := engine.Ingest(ctx, "u1", content)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewVectors)

	second, err := engine.Ingest(ctx, "u1", content)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewVectors)
}

func TestEngine_RequiresUser(t *testing.T) {
	engine := newTestEngine(t, mock.NewMockCompleter(), mock.NewMockCompleter())
	ctx := context.Background()

	_, err := engine.Ingest(ctx, "", "some content")
	assert.ErrorIs(t, err, ErrUserRequired)

	_, err = engine.Query(ctx, "", "some question")
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestEngine_IngestNoteVisibleToQueries(t *testing.T) {
	judge := mock.NewMockCompleter()
	judge.DefaultResponse = "9"
	generator := mock.NewMockCompleter()
	generator.DefaultResponse = "Support is available around the clock."

	engine := newTestEngine(t, judge, generator)
	ctx := context.Background()

	_, err := engine.IngestNote(ctx, core.NoteCategoryHelp,
		"Customer support is available twenty four hours a day.")
	require.NoError(t, err)

	// Public notes are not in a user's private scope; the scoped searcher
	// reaches them through an explicit public query.
	answer, err := engine.Searcher().Answer(ctx,
		core.Scope{Visibility: core.VisibilityPublic},
		"When can I reach support?")
	require.NoError(t, err)
	assert.Equal(t, "Support is available around the clock.", answer)
}
