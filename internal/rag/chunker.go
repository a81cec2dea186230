package rag

import (
	"fmt"

	"safenest/internal/model"
)

// ChunkParams controls the sliding window. The defaults match the values the
// web client has always used; they are untuned and deliberately configurable.
type ChunkParams struct {
	ChunkSize int
	Overlap   int
}

// DefaultChunkParams returns the standard window of 1000 runes with a
// 200-rune overlap.
func DefaultChunkParams() ChunkParams {
	return ChunkParams{ChunkSize: 1000, Overlap: 200}
}

// ChunkPage splits one page's text into overlapping windows. Windows slice
// runes, not bytes, so multi-byte text never splits mid-character. Every rune
// of the page is covered by at least one chunk, and emission stops once a
// window reaches the end of the page, so a page no longer than ChunkSize
// yields exactly one chunk. Empty page text yields no chunks.
//
// Overlap must satisfy 0 <= overlap < chunkSize; violating that is a
// programming error and panics.
func ChunkPage(pageText string, pageNumber int, documentName string, p ChunkParams) []model.Chunk {
	if p.ChunkSize <= 0 || p.Overlap < 0 || p.Overlap >= p.ChunkSize {
		panic(fmt.Sprintf("rag: invalid chunk params: size=%d overlap=%d", p.ChunkSize, p.Overlap))
	}

	runes := []rune(pageText)
	if len(runes) == 0 {
		return nil
	}

	step := p.ChunkSize - p.Overlap
	var chunks []model.Chunk
	for start := 0; ; start += step {
		end := start + p.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, model.Chunk{
			Text:         string(runes[start:end]),
			PageNumber:   pageNumber,
			ChunkIndex:   len(chunks),
			DocumentName: documentName,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkDocument chunks every page of an extraction, page by page.
func ChunkDocument(documentName string, ex *Extraction, p ChunkParams) []model.Chunk {
	var chunks []model.Chunk
	for i, pageText := range ex.PageTexts {
		chunks = append(chunks, ChunkPage(pageText, i+1, documentName, p)...)
	}
	return chunks
}
