package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hybrid-chatbot-be/pkg/llm"
)

// Classification is the routing decision for a user query.
type Classification string

const (
	// ClassificationRAG routes the query through retrieval grounding.
	ClassificationRAG Classification = "RAG"
	// ClassificationLLM routes the query to direct generation.
	ClassificationLLM Classification = "LLM"
)

// Classifier performs pure LLM-based query routing.
// No retrieval, no database access, just a single deterministic call.
type Classifier struct {
	llmProvider llm.LLMProvider
	topic       string
	logger      *log.Logger
}

// NewClassifier creates a new intent classifier for the given knowledge topic.
func NewClassifier(llmProvider llm.LLMProvider, topic string, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		topic:       topic,
		logger:      logger,
	}
}

// Classify decides whether the query should be answered from the knowledge
// base or from the model's general knowledge. Any output that is not exactly
// "RAG" defaults to direct generation.
func (c *Classifier) Classify(ctx context.Context, query string) (Classification, error) {
	prompt := c.buildPrompt(query)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[ERROR] Intent classification failed: %v", err)
		return "", fmt.Errorf("intent classification failed: %w", err)
	}

	token := strings.TrimSpace(response)
	if strings.EqualFold(token, string(ClassificationRAG)) {
		c.logger.Printf("[INTENT] Classified as RAG: %q", query)
		return ClassificationRAG, nil
	}

	c.logger.Printf("[INTENT] Classified as LLM (raw=%q): %q", token, query)
	return ClassificationLLM, nil
}

func (c *Classifier) buildPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an intent router. Classify the user's query. ")
	prompt.WriteString(fmt.Sprintf("If the query is primarily about '%s', respond with 'RAG'. ", c.topic))
	prompt.WriteString("Otherwise, respond with 'LLM'. ")
	prompt.WriteString("Only output the classification word, nothing else.\n\n")
	prompt.WriteString("Query: ")
	prompt.WriteString(query)

	return prompt.String()
}
