package service

import (
	"context"
	"encoding/json"
	"log"

	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/entity"
	"discharge-assist-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	chunkStore        IChunkStore
	embeddingProvider embedding.Provider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chunkStore IChunkStore,
	embeddingProvider embedding.Provider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		chunkStore:        chunkStore,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IndexChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal index request: %v", err)
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	res, err := cs.embeddingProvider.Generate(payload.Text, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to embed chunk %s: %v", payload.ChunkId, err)
		msg.Nack()
		return
	}

	chunk := &entity.KnowledgeChunk{
		ChunkId:   payload.ChunkId,
		Text:      payload.Text,
		Source:    payload.Source,
		Page:      payload.Page,
		Embedding: res.Embedding.Values,
	}

	if err := cs.chunkStore.UpsertBulk(ctx, []*entity.KnowledgeChunk{chunk}); err != nil {
		log.Printf("[ERROR] Failed to store chunk %s: %v", payload.ChunkId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Indexed chunk %s (source %s page %d)", payload.ChunkId, payload.Source, payload.Page)
	msg.Ack()
}
