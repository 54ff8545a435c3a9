package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker(t *testing.T) {
	_, err := NewChunker(0)
	assert.Error(t, err)

	_, err = NewChunker(-5)
	assert.Error(t, err)

	c, err := NewChunker(100)
	require.NoError(t, err)
	assert.Equal(t, 100, c.MaxChars())
}

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	c, err := NewChunker(100)
	require.NoError(t, err)

	chunks := c.Split("short enough to fit")
	assert.Equal(t, []string{"short enough to fit"}, chunks)
}

func TestChunker_EmptyInput(t *testing.T) {
	c, err := NewChunker(100)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestChunker_PrefersParagraphBoundaries(t *testing.T) {
	c, err := NewChunker(40)
	require.NoError(t, err)

	para1 := "first paragraph stays whole here."
	para2 := "second paragraph stays whole too."
	chunks := c.Split(para1 + "\n\n" + para2)

	require.Len(t, chunks, 2)
	assert.Equal(t, para1+"\n\n", chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestChunker_FallsBackToSentences(t *testing.T) {
	c, err := NewChunker(30)
	require.NoError(t, err)

	text := "one short sentence. another short sentence. a third one."
	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 30, "chunk over budget: %q", chunk)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunker_OversizedWordCharSplit(t *testing.T) {
	c, err := NewChunker(10)
	require.NoError(t, err)

	word := strings.Repeat("x", 25)
	chunks := c.Split(word)

	assert.Equal(t, []string{
		strings.Repeat("x", 10),
		strings.Repeat("x", 10),
		strings.Repeat("x", 5),
	}, chunks)
}

func TestChunker_Lossless(t *testing.T) {
	c, err := NewChunker(48)
	require.NoError(t, err)

	text := "Intro paragraph with several words in it.\n\n" +
		"A second paragraph. It has two sentences! And a question? " +
		"Plus a trailing fragment with a veryverylongunbreakabletokenindeed inside.\n" +
		"Final line."

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 48, "chunk over budget: %q", chunk)
	}
	assert.Equal(t, text, strings.Join(chunks, ""), "chunks must concatenate to the input")
}

func TestChunker_GreedyMerge(t *testing.T) {
	c, err := NewChunker(30)
	require.NoError(t, err)

	// Each word fits alone; merging should pack several per chunk
	// rather than one word per chunk.
	text := strings.TrimSpace(strings.Repeat("word ", 20))
	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	assert.LessOrEqual(t, len(chunks), 4, "words should be packed, not emitted one per chunk")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 30)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunker_Unicode(t *testing.T) {
	c, err := NewChunker(4)
	require.NoError(t, err)

	text := "héllo wörld"
	chunks := c.Split(text)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 4)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
