package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/store"
)

// contextSeparator joins retrieved chunks inside the grounded prompt.
const contextSeparator = "\n\n---\n\n"

// Generator produces the final answer, either grounded in retrieved
// documents or from the model's general knowledge.
type Generator struct {
	llmProvider llm.LLMProvider
	topic       string
	logger      *log.Logger
}

// NewGenerator creates a new response generator for the given knowledge topic.
func NewGenerator(llmProvider llm.LLMProvider, topic string, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		topic:       topic,
		logger:      logger,
	}
}

// GenerateGrounded answers the query using ONLY the retrieved documents.
// The system instruction forbids outside knowledge so that an empty or
// irrelevant context yields an explicit refusal instead of a hallucination.
func (g *Generator) GenerateGrounded(
	ctx context.Context,
	query string,
	documents []store.Document,
	history []llm.Message,
) (string, error) {

	contents := make([]string, len(documents))
	for i, doc := range documents {
		g.logger.Printf("[GENERATION] Grounding on '%s' (score=%.4f, %d characters)",
			doc.Title, doc.Score, len(doc.Content))
		contents[i] = doc.Content
	}

	var system strings.Builder
	system.WriteString(fmt.Sprintf("You are a specialized assistant on %s. ", g.topic))
	system.WriteString("Answer the user's question ONLY using the following context. ")
	system.WriteString("If the context does not contain the answer, state that you cannot answer based on the provided documents.")
	system.WriteString("\n\nContext: ")
	system.WriteString(strings.Join(contents, contextSeparator))

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system.String()})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: query})

	answer, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.1))
	if err != nil {
		g.logger.Printf("[ERROR] Grounded generation failed: %v", err)
		return "", fmt.Errorf("grounded generation failed: %w", err)
	}

	g.logger.Printf("[GENERATION] Grounded answer produced from %d documents", len(documents))
	return answer, nil
}

// GenerateDirect answers the query from general knowledge, preserving the
// conversation history for follow-up coherence.
func (g *Generator) GenerateDirect(
	ctx context.Context,
	query string,
	history []llm.Message,
) (string, error) {

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: "You are a helpful and concise general knowledge assistant. Answer the user's question directly.",
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: query})

	answer, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.1))
	if err != nil {
		g.logger.Printf("[ERROR] Direct generation failed: %v", err)
		return "", fmt.Errorf("direct generation failed: %w", err)
	}

	return answer, nil
}
