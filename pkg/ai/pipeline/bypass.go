package pipeline

import (
	"context"
	"log"

	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/rag/response"
)

// BypassResult contains the result of a direct execution.
type BypassResult struct {
	Reply string
}

// BypassPipeline answers from the model's general knowledge without
// touching the document corpus. Conversation history is preserved.
type BypassPipeline struct {
	generator *response.Generator
	logger    *log.Logger
}

// NewBypassPipeline creates a new direct-generation pipeline.
func NewBypassPipeline(generator *response.Generator, logger *log.Logger) *BypassPipeline {
	return &BypassPipeline{
		generator: generator,
		logger:    logger,
	}
}

// Execute runs direct generation with conversation history.
func (p *BypassPipeline) Execute(
	ctx context.Context,
	query string,
	history []llm.Message,
) (*BypassResult, error) {

	p.logger.Printf("[BYPASS] Executing with %d history messages", len(history))

	reply, err := p.generator.GenerateDirect(ctx, query, history)
	if err != nil {
		return nil, err
	}

	return &BypassResult{Reply: reply}, nil
}
