package app

import (
	"context"
	"strings"
	"sync"

	"safenest/internal/model"
	"safenest/internal/rag"
)

// NoContextAnswer is returned verbatim when retrieval comes back empty; the
// web client displays it as a normal assistant message.
const NoContextAnswer = "I couldn't find relevant information in the uploaded documents to answer your question."

// TextGenerator is the boundary to the hosted text-generation service.
// Failures come back as *ai.GenerationError.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

type RAGService struct {
	generator   TextGenerator
	chunkParams rag.ChunkParams
	retrieval   rag.RetrievalParams
}

func NewRAGService(generator TextGenerator, chunkParams rag.ChunkParams, retrieval rag.RetrievalParams) *RAGService {
	return &RAGService{
		generator:   generator,
		chunkParams: chunkParams,
		retrieval:   retrieval,
	}
}

// AnswerInput carries one query plus the client's whole chunk pool. Chunks
// are shipped on every call; the server keeps no pool of its own.
type AnswerInput struct {
	Query  string
	Chunks []model.Chunk
}

// Answer runs the full pipeline: retrieve top chunks, assemble the grounding
// prompt, call the generator, and recover which sources were cited. A pool
// with nothing retrievable short-circuits before any network call.
func (s *RAGService) Answer(ctx context.Context, input AnswerInput) (*model.RAGResponse, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" || len(input.Chunks) == 0 {
		return nil, ErrInvalidInput
	}
	if !s.generator.Configured() {
		return nil, ErrGeneratorNotConfigured
	}

	topChunks := rag.Retrieve(query, input.Chunks, s.retrieval)
	if len(topChunks) == 0 {
		return &model.RAGResponse{Answer: NoContextAnswer, Sources: []model.Source{}}, nil
	}

	prompt := rag.BuildPrompt(query, topChunks)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &model.RAGResponse{
		Answer:  answer,
		Sources: rag.ExtractCited(answer, topChunks),
	}, nil
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name string
	Data []byte
}

// DocumentResult reports the outcome for one uploaded file. Exactly one of
// Chunks or Error is meaningful.
type DocumentResult struct {
	Name       string        `json:"name"`
	PageCount  int           `json:"page_count,omitempty"`
	ChunkCount int           `json:"chunk_count"`
	Chunks     []model.Chunk `json:"chunks,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// IngestBatch extracts and chunks each file independently. Files are
// processed in parallel; each goroutine writes only its own result slot.
// A failed file is reported in its slot and never aborts the rest.
func (s *RAGService) IngestBatch(ctx context.Context, files []UploadFile) []DocumentResult {
	results := make([]DocumentResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file UploadFile) {
			defer wg.Done()
			results[i] = s.ingestOne(file)
		}(i, file)
	}
	wg.Wait()

	return results
}

func (s *RAGService) ingestOne(file UploadFile) DocumentResult {
	result := DocumentResult{Name: file.Name}

	extraction, err := rag.ExtractDocument(file.Name, file.Data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	chunks := rag.ChunkDocument(file.Name, extraction, s.chunkParams)
	result.PageCount = len(extraction.PageTexts)
	result.ChunkCount = len(chunks)
	result.Chunks = chunks
	return result
}
