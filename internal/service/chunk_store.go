package service

import (
	"context"

	"discharge-assist-be/internal/entity"
	"discharge-assist-be/internal/repository/unitofwork"
)

// IChunkStore is where the consumer writes embedded chunks. Backed by
// the transactional pgvector repository in production and the in-memory
// index offline.
type IChunkStore interface {
	UpsertBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
}

type uowChunkStore struct {
	factory unitofwork.RepositoryFactory
}

// NewUowChunkStore wraps chunk writes in a unit of work so a batch
// lands atomically.
func NewUowChunkStore(factory unitofwork.RepositoryFactory) IChunkStore {
	return &uowChunkStore{factory: factory}
}

func (s *uowChunkStore) UpsertBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.KnowledgeChunkRepository().UpsertBulk(ctx, chunks); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}
