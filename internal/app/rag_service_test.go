package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safenest/internal/ai"
	"safenest/internal/model"
	"safenest/internal/rag"
)

type stubGenerator struct {
	answer     string
	err        error
	configured bool
	lastPrompt string
	calls      int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.answer, s.err
}

func (s *stubGenerator) Configured() bool { return s.configured }

func newTestRAGService(gen *stubGenerator) *RAGService {
	return NewRAGService(gen, rag.DefaultChunkParams(), rag.DefaultRetrievalParams())
}

func testChunks() []model.Chunk {
	return []model.Chunk{
		{Text: "iron levels are low, mild anemia", PageNumber: 2, ChunkIndex: 0, DocumentName: "labs.pdf"},
		{Text: "glucose screening normal", PageNumber: 3, ChunkIndex: 1, DocumentName: "labs.pdf"},
	}
}

func TestAnswer_FullPipeline(t *testing.T) {
	gen := &stubGenerator{
		configured: true,
		answer:     "Your iron is low [Source 1 - labs.pdf, Page 2].",
	}
	svc := newTestRAGService(gen)

	result, err := svc.Answer(context.Background(), AnswerInput{Query: "anemia", Chunks: testChunks()})

	require.NoError(t, err)
	assert.Equal(t, gen.answer, result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "labs.pdf", result.Sources[0].DocumentName)
	assert.Equal(t, 2, result.Sources[0].PageNumber)

	// The prompt carried the retrieved context and the literal query.
	assert.Contains(t, gen.lastPrompt, "iron levels are low")
	assert.Contains(t, gen.lastPrompt, "User question: anemia")
}

func TestAnswer_EmptyQueryOrChunks(t *testing.T) {
	svc := newTestRAGService(&stubGenerator{configured: true})

	_, err := svc.Answer(context.Background(), AnswerInput{Query: "  ", Chunks: testChunks()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Answer(context.Background(), AnswerInput{Query: "anemia"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnswer_GeneratorNotConfigured(t *testing.T) {
	gen := &stubGenerator{configured: false}
	svc := newTestRAGService(gen)

	_, err := svc.Answer(context.Background(), AnswerInput{Query: "anemia", Chunks: testChunks()})

	assert.ErrorIs(t, err, ErrGeneratorNotConfigured)
	assert.Zero(t, gen.calls)
}

func TestAnswer_GenerationErrorPropagates(t *testing.T) {
	gen := &stubGenerator{
		configured: true,
		err:        &ai.GenerationError{Detail: "status 429: quota exceeded"},
	}
	svc := newTestRAGService(gen)

	_, err := svc.Answer(context.Background(), AnswerInput{Query: "anemia", Chunks: testChunks()})

	var genErr *ai.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "status 429: quota exceeded", genErr.Detail)
}

func TestAnswer_NothingRetrievableShortCircuits(t *testing.T) {
	gen := &stubGenerator{configured: true}
	svc := NewRAGService(gen, rag.DefaultChunkParams(), rag.RetrievalParams{TopK: 0, PhraseWeight: 10, TokenWeight: 1, MinTokenLen: 3})

	result, err := svc.Answer(context.Background(), AnswerInput{Query: "anemia", Chunks: testChunks()})

	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	// No network call happened.
	assert.Zero(t, gen.calls)
}

func TestIngestBatch_BadFileDoesNotAbortBatch(t *testing.T) {
	svc := newTestRAGService(&stubGenerator{configured: true})

	results := svc.IngestBatch(context.Background(), []UploadFile{
		{Name: "notes.txt", Data: []byte("week 24 checkup, all good")},
		{Name: "scan.docx", Data: []byte("irrelevant")},
		{Name: "broken.pdf", Data: []byte("not a pdf")},
	})

	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	assert.Equal(t, 1, results[0].ChunkCount)
	assert.Equal(t, "week 24 checkup, all good", results[0].Chunks[0].Text)

	assert.Contains(t, results[1].Error, "docx")
	assert.Empty(t, results[1].Chunks)

	assert.Contains(t, results[2].Error, "broken.pdf")
	assert.Empty(t, results[2].Chunks)
}

func TestIngestBatch_LargeTxtChunked(t *testing.T) {
	svc := newTestRAGService(&stubGenerator{configured: true})
	data := []byte(strings.Repeat("a", 1500))

	results := svc.IngestBatch(context.Background(), []UploadFile{{Name: "big.txt", Data: data}})

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].PageCount)
	assert.Equal(t, 2, results[0].ChunkCount)
	assert.Equal(t, "big.txt", results[0].Chunks[0].DocumentName)
	assert.Equal(t, 1, results[0].Chunks[0].PageNumber)
}
