package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safenest/internal/ai"
	"safenest/internal/app"
	"safenest/internal/model"
	"safenest/internal/rag"
)

type fakeGenerator struct {
	answer     string
	err        error
	configured bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.answer, f.err
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func newRAGRouter(gen app.TextGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewRAGService(gen, rag.DefaultChunkParams(), rag.DefaultRetrievalParams())

	router := gin.New()
	router.POST("/api/rag", NewRAGHandler(svc).Ask)
	router.POST("/api/documents", NewDocumentHandler(svc).Upload)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAskHandler_Success(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		answer:     "Low iron is common [Source 1 - labs.pdf, Page 2].",
	}
	router := newRAGRouter(gen)

	w := postJSON(t, router, "/api/rag", gin.H{
		"query": "anemia",
		"chunks": []model.Chunk{
			{Text: "iron low, mild anemia", PageNumber: 2, ChunkIndex: 0, DocumentName: "labs.pdf"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.RAGResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gen.answer, resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "labs.pdf", resp.Sources[0].DocumentName)
}

func TestAskHandler_MissingQueryOrChunks(t *testing.T) {
	router := newRAGRouter(&fakeGenerator{configured: true})

	w := postJSON(t, router, "/api/rag", gin.H{"chunks": []model.Chunk{{Text: "x"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Query and chunks are required")

	w = postJSON(t, router, "/api/rag", gin.H{"query": "anemia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_MissingAPIKey(t *testing.T) {
	router := newRAGRouter(&fakeGenerator{configured: false})

	w := postJSON(t, router, "/api/rag", gin.H{
		"query":  "anemia",
		"chunks": []model.Chunk{{Text: "iron low", PageNumber: 1, DocumentName: "labs.pdf"}},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "LLM API key not configured")
}

func TestAskHandler_GenerationFailure(t *testing.T) {
	router := newRAGRouter(&fakeGenerator{
		configured: true,
		err:        &ai.GenerationError{Detail: "status 503: overloaded"},
	})

	w := postJSON(t, router, "/api/rag", gin.H{
		"query":  "anemia",
		"chunks": []model.Chunk{{Text: "iron low", PageNumber: 1, DocumentName: "labs.pdf"}},
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to generate response", body["error"])
	assert.Equal(t, "status 503: overloaded", body["details"])
}

func TestUploadHandler_MixedBatch(t *testing.T) {
	router := newRAGRouter(&fakeGenerator{configured: true})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("week 24 checkup"))
	require.NoError(t, err)
	part, err = mw.CreateFormFile("files", "report.docx")
	require.NoError(t, err)
	_, err = part.Write([]byte("unsupported"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []app.DocumentResult `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 2)

	assert.Equal(t, "notes.txt", resp.Documents[0].Name)
	assert.Empty(t, resp.Documents[0].Error)
	assert.Equal(t, 1, resp.Documents[0].ChunkCount)

	assert.Equal(t, "report.docx", resp.Documents[1].Name)
	assert.Contains(t, resp.Documents[1].Error, "docx")
}

func TestUploadHandler_NoFiles(t *testing.T) {
	router := newRAGRouter(&fakeGenerator{configured: true})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
