package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeChunk struct {
	ChunkId   string          `gorm:"type:varchar(255);primaryKey"`
	Text      string          `gorm:"type:text"`
	Source    string          `gorm:"type:varchar(512);index"`
	Page      int             `gorm:"default:0"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
