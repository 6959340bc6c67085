package service

import (
	"context"
	"encoding/json"
	"fmt"

	"discharge-assist-be/internal/constant"
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/logger"
	"discharge-assist-be/pkg/rag/chunker"
)

type IIngestionService interface {
	// IngestPage chunks one page of reference text and publishes an
	// index request per chunk. Returns how many chunks were published.
	IngestPage(ctx context.Context, source string, page int, text string) (int, error)
}

type ingestionService struct {
	publisher IPublisherService
	logger    logger.ILogger
}

func NewIngestionService(publisher IPublisherService, l logger.ILogger) IIngestionService {
	return &ingestionService{
		publisher: publisher,
		logger:    l,
	}
}

func (s *ingestionService) IngestPage(ctx context.Context, source string, page int, text string) (int, error) {
	chunks := chunker.SplitDefault(text)

	for n, chunk := range chunks {
		// Deterministic ids make re-ingestion an upsert instead of a
		// duplicate insert.
		msg := dto.IndexChunkMessage{
			ChunkId: fmt.Sprintf("%s#p%d#c%d", source, page, n),
			Text:    chunk,
			Source:  source,
			Page:    page,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return n, fmt.Errorf("failed to marshal index request: %w", err)
		}
		if err := s.publisher.Publish(ctx, payload); err != nil {
			return n, fmt.Errorf("failed to publish index request: %w", err)
		}
	}

	s.logger.Info(constant.ModuleIngestion, "published page for indexing", map[string]interface{}{
		"source": source,
		"page":   page,
		"chunks": len(chunks),
	})
	return len(chunks), nil
}
