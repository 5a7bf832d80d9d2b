package model

// Document is the unit of ingestion: extracted text plus the metadata the
// loader attached to it. Immutable once produced.
type Document struct {
	ID       string                 `json:"id"`
	Filename string                 `json:"filename"`
	Format   string                 `json:"format"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ChunkMetadata records where a chunk sits inside its source document.
// EndOffset-StartOffset always equals the chunk text length.
type ChunkMetadata struct {
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
	Length      int `json:"length"`
}

// Chunk is a positioned window of a source document. Index is strictly
// increasing per document.
type Chunk struct {
	Text     string        `json:"text"`
	Index    int           `json:"index"`
	SourceID string        `json:"source_id"`
	Metadata ChunkMetadata `json:"metadata"`
}
