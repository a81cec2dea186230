package model

// Chunk is a page-attributed slice of an uploaded document. The JSON field
// names match what the web client ships on every /api/rag call, so they stay
// camelCase.
type Chunk struct {
	Text         string `json:"text"`
	PageNumber   int    `json:"pageNumber"`
	ChunkIndex   int    `json:"chunkIndex"`
	DocumentName string `json:"documentName"`
}

// Source is a cited chunk as returned to the client, with its text already
// truncated for display.
type Source struct {
	Text         string `json:"text"`
	PageNumber   int    `json:"pageNumber"`
	DocumentName string `json:"documentName"`
}

// RAGResponse is the answer payload for one query.
type RAGResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
