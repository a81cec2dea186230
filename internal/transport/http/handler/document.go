package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"safenest/internal/app"
	"safenest/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB per file

type DocumentHandler struct {
	ragService *app.RAGService
}

func NewDocumentHandler(ragService *app.RAGService) *DocumentHandler {
	return &DocumentHandler{ragService: ragService}
}

// Upload accepts a multipart batch under "files", extracts and chunks each
// one, and reports per-file outcomes. A bad file shows up as an error in its
// own slot; the rest of the batch goes through.
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]app.UploadFile, 0, len(fileHeaders))
	results := make([]app.DocumentResult, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > maxUploadSize {
			results = append(results, app.DocumentResult{
				Name:  header.Filename,
				Error: "file too large (max 10MB)",
			})
			continue
		}
		f, err := header.Open()
		if err != nil {
			results = append(results, app.DocumentResult{Name: header.Filename, Error: "failed to read file"})
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			results = append(results, app.DocumentResult{Name: header.Filename, Error: "failed to read file"})
			continue
		}
		files = append(files, app.UploadFile{Name: header.Filename, Data: data})
	}

	results = append(results, h.ragService.IngestBatch(c.Request.Context(), files)...)

	c.JSON(http.StatusOK, gin.H{"documents": results})
}
