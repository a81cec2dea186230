package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"safenest/internal/model"
)

func TestBuildPrompt_LabelsSourcesByPosition(t *testing.T) {
	chunks := []model.Chunk{
		{Text: "chunk one", PageNumber: 2, ChunkIndex: 7, DocumentName: "lab-results.pdf"},
		{Text: "chunk two", PageNumber: 1, ChunkIndex: 0, DocumentName: "notes.txt"},
	}

	prompt := BuildPrompt("what do my results mean", chunks)

	// 1-indexed by position in the selection, not by global chunk index.
	assert.Contains(t, prompt, "[Source 1 - lab-results.pdf, Page 2]:\nchunk one")
	assert.Contains(t, prompt, "[Source 2 - notes.txt, Page 1]:\nchunk two")
	assert.Contains(t, prompt, "User question: what do my results mean")
	assert.Contains(t, prompt, "Answer based ONLY on the provided document context")
}

func TestBuildPrompt_BlocksSeparated(t *testing.T) {
	chunks := []model.Chunk{
		{Text: "a", PageNumber: 1, DocumentName: "d.pdf"},
		{Text: "b", PageNumber: 1, DocumentName: "d.pdf"},
	}

	prompt := BuildPrompt("q", chunks)

	assert.Contains(t, prompt, "a\n\n---\n\n[Source 2")
	assert.Equal(t, 1, strings.Count(prompt, "\n\n---\n\n"))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	chunks := []model.Chunk{{Text: "stable", PageNumber: 1, DocumentName: "d.pdf"}}

	assert.Equal(t, BuildPrompt("q", chunks), BuildPrompt("q", chunks))
}
