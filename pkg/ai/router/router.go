package router

import (
	"context"
	"log"

	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/ai/pipeline"
	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/rag/intent"
	"hybrid-chatbot-be/pkg/store"
)

// ExecuteResult is the unified result from any pipeline execution.
type ExecuteResult struct {
	Reply          string
	Classification intent.Classification
	Sources        []store.Document
}

// Router selects between the grounded and the direct pipeline using the
// intent classifier. Classification happens on every turn, so a single
// session can alternate between grounded and direct answers.
type Router struct {
	classifier     *intent.Classifier
	ragPipeline    *pipeline.RAGPipeline
	bypassPipeline *pipeline.BypassPipeline
	logger         *log.Logger
}

// NewRouter creates a new pipeline router.
func NewRouter(
	classifier *intent.Classifier,
	ragPipeline *pipeline.RAGPipeline,
	bypassPipeline *pipeline.BypassPipeline,
	logger *log.Logger,
) *Router {
	return &Router{
		classifier:     classifier,
		ragPipeline:    ragPipeline,
		bypassPipeline: bypassPipeline,
		logger:         logger,
	}
}

// Execute classifies the query and runs the matching pipeline.
func (r *Router) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	history []llm.Message,
) (*ExecuteResult, error) {

	classification, err := r.classifier.Classify(ctx, query)
	if err != nil {
		return nil, err
	}

	switch classification {
	case intent.ClassificationRAG:
		r.logger.Printf("[ROUTER] Executing RAG pipeline")

		result, err := r.ragPipeline.Execute(ctx, uow, query, history)
		if err != nil {
			r.logger.Printf("[ROUTER] RAG pipeline error: %v", err)
			return nil, err
		}

		return &ExecuteResult{
			Reply:          result.Reply,
			Classification: classification,
			Sources:        result.Sources,
		}, nil

	default:
		r.logger.Printf("[ROUTER] Executing BYPASS pipeline")

		result, err := r.bypassPipeline.Execute(ctx, query, history)
		if err != nil {
			r.logger.Printf("[ROUTER] Bypass pipeline error: %v", err)
			return nil, err
		}

		return &ExecuteResult{
			Reply:          result.Reply,
			Classification: classification,
		}, nil
	}
}
