// Seeds the knowledge base from a directory of text files. Each file becomes
// one document; chunking and embedding happen inline so the seeder works
// without the REST server running.
//
// Usage: go run ./cmd/seed -dir ./corpus
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hybrid-chatbot-be/internal/config"
	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/repository/specification"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/database"
	"hybrid-chatbot-be/pkg/embedding"
	"hybrid-chatbot-be/pkg/embedding/jina"
	"hybrid-chatbot-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	dir := flag.String("dir", "./corpus", "directory of .txt/.md files to ingest")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.EmbeddingAPIKey)
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.EmbeddingAPIKey)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Unable to read corpus directory %s: %v", *dir, err)
	}

	ctx := context.Background()
	seeded, skipped := 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		title := strings.TrimSuffix(entry.Name(), ext)

		uow := uowFactory.NewUnitOfWork(ctx)
		existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByTitle{Title: title})
		if err != nil {
			log.Fatalf("Lookup failed for %s: %v", title, err)
		}
		if existing != nil {
			color.Yellow("skip  %s (already seeded)", title)
			skipped++
			continue
		}

		raw, err := os.ReadFile(filepath.Join(*dir, entry.Name()))
		if err != nil {
			log.Fatalf("Unable to read %s: %v", entry.Name(), err)
		}

		if err := seedDocument(ctx, uow, embeddingProvider, title, entry.Name(), string(raw)); err != nil {
			color.Red("fail  %s: %v", title, err)
			os.Exit(1)
		}

		color.Green("seed  %s", title)
		seeded++
	}

	color.Cyan("Done: %d seeded, %d skipped", seeded, skipped)
}

func seedDocument(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	provider embedding.EmbeddingProvider,
	title, source, content string,
) error {
	document := entity.Document{
		Id:        uuid.New(),
		Title:     title,
		Source:    source,
		Content:   content,
		CreatedAt: time.Now(),
	}

	chunks := utils.SplitText(content, 1500, 200)
	embeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))

	for i, chunk := range chunks {
		res, err := provider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return err
		}
		embeddings = append(embeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			Chunk:          chunk,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     document.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return err
	}
	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		return err
	}

	return uow.Commit()
}
