package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safenest/internal/model"
)

func chunksFromTexts(texts ...string) []model.Chunk {
	chunks := make([]model.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = model.Chunk{Text: text, PageNumber: 1, ChunkIndex: i, DocumentName: "doc.txt"}
	}
	return chunks
}

func TestRetrieve_RanksByTokenFrequency(t *testing.T) {
	chunks := chunksFromTexts("high risk area", "low pollution", "risk risk risk")

	top := Retrieve("risk", chunks, RetrievalParams{TopK: 2, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3})

	require.Len(t, top, 2)
	assert.Equal(t, "risk risk risk", top[0].Text)
	assert.Equal(t, "high risk area", top[1].Text)
}

func TestRetrieve_ExactPhraseOutscoresTokens(t *testing.T) {
	withPhrase := "gestational diabetes screening is recommended"
	withoutPhrase := "screening for diabetes that is gestational is recommended"
	chunks := chunksFromTexts(withoutPhrase, withPhrase)

	top := Retrieve("gestational diabetes", chunks, DefaultRetrievalParams())

	require.Len(t, top, 2)
	assert.Equal(t, withPhrase, top[0].Text)
}

func TestRetrieve_CaseInsensitive(t *testing.T) {
	chunks := chunksFromTexts("nothing here", "ANEMIA detected in bloodwork")

	top := Retrieve("anemia", chunks, DefaultRetrievalParams())

	assert.Equal(t, "ANEMIA detected in bloodwork", top[0].Text)
}

func TestRetrieve_ShortTokensIgnored(t *testing.T) {
	// "b12" has 3 runes, at the cutoff, so it must not count as a token;
	// only the exact phrase match ranks the second chunk first.
	chunks := chunksFromTexts("b12 b12 b12 levels", "deficiency of vitamin b12")

	top := Retrieve("vitamin b12", chunks, DefaultRetrievalParams())

	require.Len(t, top, 2)
	assert.Equal(t, "deficiency of vitamin b12", top[0].Text)
}

func TestRetrieve_TopKBound(t *testing.T) {
	chunks := chunksFromTexts("a", "b", "c", "d", "e", "f", "g")

	assert.Len(t, Retrieve("query", chunks, RetrievalParams{TopK: 3, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3}), 3)
	assert.Len(t, Retrieve("query", chunks, RetrievalParams{TopK: 50, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3}), 7)
}

func TestRetrieve_AllZeroScoresStillReturned(t *testing.T) {
	chunks := chunksFromTexts("alpha", "beta", "gamma")

	top := Retrieve("unrelated", chunks, RetrievalParams{TopK: 2, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3})

	// Zero relevance is not the retriever's problem; ties keep input order.
	require.Len(t, top, 2)
	assert.Equal(t, "alpha", top[0].Text)
	assert.Equal(t, "beta", top[1].Text)
}

func TestRetrieve_EmptyChunks(t *testing.T) {
	assert.Empty(t, Retrieve("anything", nil, DefaultRetrievalParams()))
	assert.Empty(t, Retrieve("anything", []model.Chunk{}, DefaultRetrievalParams()))
}

func TestRetrieve_Deterministic(t *testing.T) {
	chunks := chunksFromTexts(
		"preeclampsia risk factors",
		"normal blood pressure",
		"risk of preeclampsia",
		"risk risk",
		"unrelated text",
	)

	first := Retrieve("preeclampsia risk", chunks, DefaultRetrievalParams())
	second := Retrieve("preeclampsia risk", chunks, DefaultRetrievalParams())

	assert.Equal(t, first, second)
}

func TestRetrieve_StableTieBreak(t *testing.T) {
	// Equal scores everywhere: output order must be input order.
	chunks := chunksFromTexts("risk one", "risk two", "risk three")

	top := Retrieve("risk", chunks, DefaultRetrievalParams())

	require.Len(t, top, 3)
	assert.Equal(t, "risk one", top[0].Text)
	assert.Equal(t, "risk two", top[1].Text)
	assert.Equal(t, "risk three", top[2].Text)
}

func TestScoreChunk_Weights(t *testing.T) {
	p := RetrievalParams{TopK: 5, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3}
	tokens := []string{"anemia", "iron"}

	// One phrase hit (10) + "anemia" twice (2) + "iron" once (1).
	score := scoreChunk("anemia iron", tokens, "Anemia iron study: anemia improved", p)
	assert.Equal(t, 13, score)

	assert.Equal(t, 0, scoreChunk("anemia iron", tokens, "nothing relevant", p))
}
