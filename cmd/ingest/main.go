package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"
	"time"

	"discharge-assist-be/internal/config"
	"discharge-assist-be/internal/pkg/logger"
	"discharge-assist-be/internal/repository/contract"
	"discharge-assist-be/internal/repository/implementation"
	"discharge-assist-be/internal/repository/unitofwork"
	"discharge-assist-be/internal/service"
	"discharge-assist-be/pkg/database"
	"discharge-assist-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/ledongthuc/pdf"
)

// Reads a reference PDF page by page, publishes each page's chunks for
// embedding, and waits for the consumer to land them in the index.
func main() {
	filePath := flag.String("file", "", "path to the reference PDF")
	source := flag.String("source", "", "source label stored with each chunk (defaults to the file name)")
	timeout := flag.Duration("timeout", 5*time.Minute, "how long to wait for indexing to finish")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: ingest -file <reference.pdf> [-source <label>]")
	}
	if *source == "" {
		*source = filepath.Base(*filePath)
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required for ingestion")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, cfg.Ai.EmbeddingDims)
	} else {
		embeddingProvider = embedding.NewHashingProvider(cfg.Ai.EmbeddingDims)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	chunkRepo := implementation.NewKnowledgeChunkRepository(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer func() { _ = sysLogger.Sync() }()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisher := service.NewPublisherService(pubSub, cfg.Keys.IndexChunkTopic)
	ingestion := service.NewIngestionService(publisher, sysLogger)
	consumer := service.NewConsumerService(pubSub, cfg.Keys.IndexChunkTopic, service.NewUowChunkStore(uowFactory), embeddingProvider)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := consumer.Consume(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	f, reader, err := pdf.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer f.Close()

	before, err := chunkRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count existing chunks: %v", err)
	}

	published := 0
	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			color.Yellow("Skipping page %d: %v", pageNum, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		n, err := ingestion.IngestPage(ctx, *source, pageNum, text)
		if err != nil {
			log.Fatalf("Failed to ingest page %d: %v", pageNum, err)
		}
		published += n
		color.Cyan("Page %d/%d: %d chunks published", pageNum, totalPages, n)
	}

	color.White("Waiting for %d chunks to be indexed...", published)
	waitForIndexing(ctx, chunkRepo, before, published)

	color.Green("Done. Source %q ingested (%d chunks).", *source, published)
}

// waitForIndexing polls the chunk count until the batch has landed.
// Re-ingestion of an existing source upserts in place, so the count can
// settle below before+published; settling (no growth across two polls
// after at least one chunk landed) also counts as done.
func waitForIndexing(ctx context.Context, repo contract.KnowledgeChunkRepository, before int64, published int) {
	target := before + int64(published)
	var last int64 = -1
	for {
		select {
		case <-ctx.Done():
			color.Yellow("Timed out waiting for indexing; some chunks may still be in flight.")
			return
		case <-time.After(2 * time.Second):
		}

		current, err := repo.Count(ctx)
		if err != nil {
			color.Yellow("Count failed: %v", err)
			continue
		}
		if current >= target {
			return
		}
		if current > before && current == last {
			return
		}
		last = current
	}
}
