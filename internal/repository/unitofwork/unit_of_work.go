package unitofwork

import (
	"context"

	"discharge-assist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PatientRepository() contract.PatientRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
