package dto

// IndexChunkMessage is the payload published per chunk by ingestion and
// consumed by the embedding consumer.
type IndexChunkMessage struct {
	ChunkId string `json:"chunk_id"`
	Text    string `json:"text"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

type IngestPageRequest struct {
	Source string `json:"source" validate:"required"`
	Page   int    `json:"page" validate:"required,min=1"`
	Text   string `json:"text" validate:"required"`
}

type IngestPageResponse struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Chunks int    `json:"chunks"`
}
