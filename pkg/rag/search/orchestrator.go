package search

import (
	"context"
	"fmt"
	"log"

	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/internal/repository/specification"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/embedding"
	"hybrid-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

// Orchestrator handles vector search over the document corpus.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator.
func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates search parameters.
type Config struct {
	Threshold float64
	TopK      int
}

// DefaultConfig returns default search configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.0,
		TopK:      3,
	}
}

// Execute embeds the query, runs vector search and returns the best-scoring
// chunk per document, hydrated with document metadata.
func (o *Orchestrator) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	config Config,
) ([]store.Document, error) {

	embeddingRes, err := o.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scoredResults, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		config.TopK,
		config.Threshold,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	o.logger.Printf("[DEBUG] Raw search results: %d chunks", len(scoredResults))

	candidates := o.deduplicateCandidates(scoredResults)

	if err := o.hydrateCandidates(ctx, uow, candidates); err != nil {
		o.logger.Printf("[WARN] Failed to hydrate candidates: %v", err)
	}

	return candidates, nil
}

// deduplicateCandidates keeps the highest-scoring chunk per document.
// Results arrive ordered by similarity, so the first hit wins.
func (o *Orchestrator) deduplicateCandidates(results []*contract.ScoredDocumentEmbedding) []store.Document {
	var candidates []store.Document
	seen := make(map[string]bool)

	for i, res := range results {
		documentId := res.Embedding.DocumentId.String()
		if seen[documentId] {
			o.logger.Printf("[DEBUG] Chunk %d: Score=%.4f [DUPLICATE]", i+1, res.Similarity)
			continue
		}

		candidates = append(candidates, store.Document{
			ID:      documentId,
			Content: res.Embedding.Chunk,
			Score:   float32(res.Similarity),
		})
		seen[documentId] = true

		o.logger.Printf("[DEBUG] Chunk %d: Score=%.4f [KEEP]", i+1, res.Similarity)
	}

	return candidates
}

func (o *Orchestrator) hydrateCandidates(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	candidates []store.Document,
) error {

	if len(candidates) == 0 {
		return nil
	}

	documentIds := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		documentIds[i] = uuid.MustParse(c.ID)
	}

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.ByIDs{IDs: documentIds})
	if err != nil {
		return err
	}

	titleMap := make(map[string]string)
	sourceMap := make(map[string]string)
	for _, d := range documents {
		idStr := d.Id.String()
		titleMap[idStr] = d.Title
		sourceMap[idStr] = d.Source
	}

	for i := range candidates {
		if title, ok := titleMap[candidates[i].ID]; ok {
			candidates[i].Title = title
		} else {
			candidates[i].Title = "Untitled Document"
		}
		candidates[i].Source = sourceMap[candidates[i].ID]
	}

	return nil
}
