package rag

import (
	"sort"
	"strings"
	"unicode/utf8"

	"safenest/internal/model"
)

// RetrievalParams holds the lexical scoring knobs. The weights carry no tuned
// rationale; they are kept configurable rather than hard-coded.
type RetrievalParams struct {
	TopK         int
	PhraseWeight int // weight per exact occurrence of the whole query
	TokenWeight  int // weight per occurrence of an individual query token
	MinTokenLen  int // tokens must be strictly longer than this to count
}

// DefaultRetrievalParams returns the standard weights: phrase hits count ten
// times a token hit, tokens of three runes or fewer are ignored, top 5 kept.
func DefaultRetrievalParams() RetrievalParams {
	return RetrievalParams{TopK: 5, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3}
}

// ScoredChunk pairs a chunk with its relevance score for one query. It lives
// only for the duration of a Retrieve call.
type ScoredChunk struct {
	Chunk model.Chunk
	Score int
}

// Retrieve ranks chunks by lexical relevance to the query and returns the
// top ones, at most p.TopK. The sort is stable: ties keep their original
// order, so identical inputs always produce identical output. Chunks are
// returned even when every score is zero; distinguishing "nothing uploaded"
// from "nothing relevant" is the caller's job.
func Retrieve(query string, chunks []model.Chunk, p RetrievalParams) []model.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	queryLower := strings.ToLower(query)
	var tokens []string
	for _, tok := range strings.Fields(queryLower) {
		if utf8.RuneCountInString(tok) > p.MinTokenLen {
			tokens = append(tokens, tok)
		}
	}

	scored := make([]ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		scored[i] = ScoredChunk{Chunk: chunk, Score: scoreChunk(queryLower, tokens, chunk.Text, p)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	k := p.TopK
	if k > len(scored) {
		k = len(scored)
	}
	if k < 0 {
		k = 0
	}
	top := make([]model.Chunk, k)
	for i := range top {
		top[i] = scored[i].Chunk
	}
	return top
}

func scoreChunk(queryLower string, tokens []string, text string, p RetrievalParams) int {
	textLower := strings.ToLower(text)

	score := 0
	if queryLower != "" {
		score += strings.Count(textLower, queryLower) * p.PhraseWeight
	}
	for _, tok := range tokens {
		score += strings.Count(textLower, tok) * p.TokenWeight
	}
	return score
}
