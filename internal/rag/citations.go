package rag

import (
	"strings"

	"safenest/internal/model"
)

// maxSourceTextRunes is how much of a cited chunk's text is kept for display.
const maxSourceTextRunes = 300

// ExtractCited returns the provenance of every chunk whose citation token
// appears literally in the answer, in the same order the chunks were offered.
// This is a plain substring check: the generator is instructed to echo the
// exact token the prompt embedded, nothing fuzzier.
func ExtractCited(answer string, chunks []model.Chunk) []model.Source {
	sources := make([]model.Source, 0, len(chunks))
	for i, chunk := range chunks {
		if !strings.Contains(answer, SourceToken(i+1)) {
			continue
		}
		sources = append(sources, model.Source{
			Text:         truncateText(chunk.Text, maxSourceTextRunes),
			PageNumber:   chunk.PageNumber,
			DocumentName: chunk.DocumentName,
		})
	}
	return sources
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
