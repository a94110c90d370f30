package pipeline

import (
	"context"
	"log"

	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/rag/response"
	"hybrid-chatbot-be/pkg/rag/search"
	"hybrid-chatbot-be/pkg/store"
)

// RAGResult contains the result of a grounded execution.
type RAGResult struct {
	Reply   string
	Sources []store.Document
}

// RAGPipeline retrieves document chunks and generates a grounded answer.
type RAGPipeline struct {
	orchestrator *search.Orchestrator
	generator    *response.Generator
	searchConfig search.Config
	logger       *log.Logger
}

// NewRAGPipeline creates a new retrieval-grounded pipeline.
func NewRAGPipeline(
	orchestrator *search.Orchestrator,
	generator *response.Generator,
	searchConfig search.Config,
	logger *log.Logger,
) *RAGPipeline {
	return &RAGPipeline{
		orchestrator: orchestrator,
		generator:    generator,
		searchConfig: searchConfig,
		logger:       logger,
	}
}

// Execute runs retrieval then grounded generation. An empty retrieval result
// still goes to the generator, whose instructions make it decline to answer.
func (p *RAGPipeline) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	history []llm.Message,
) (*RAGResult, error) {

	sources, err := p.orchestrator.Execute(ctx, uow, query, p.searchConfig)
	if err != nil {
		return nil, err
	}

	p.logger.Printf("[RAG] Retrieved %d sources for query", len(sources))

	reply, err := p.generator.GenerateGrounded(ctx, query, sources, history)
	if err != nil {
		return nil, err
	}

	return &RAGResult{
		Reply:   reply,
		Sources: sources,
	}, nil
}
