package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"hybrid-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns a canned response and records the last prompt.
type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func newTestClassifier(provider llm.LLMProvider) *Classifier {
	return NewClassifier(provider, "Jordan Peterson", log.New(io.Discard, "", 0))
}

func TestClassifyRAG(t *testing.T) {
	c := newTestClassifier(&fakeProvider{response: "RAG"})

	got, err := c.Classify(context.Background(), "What does he say about order?")
	require.NoError(t, err)
	assert.Equal(t, ClassificationRAG, got)
}

func TestClassifyRAGToleratesWhitespaceAndCase(t *testing.T) {
	for _, raw := range []string{" rag\n", "Rag", "RAG "} {
		c := newTestClassifier(&fakeProvider{response: raw})
		got, err := c.Classify(context.Background(), "topic question")
		require.NoError(t, err)
		assert.Equal(t, ClassificationRAG, got, "raw %q", raw)
	}
}

func TestClassifyDefaultsToLLM(t *testing.T) {
	// Anything that is not the RAG token routes to direct generation,
	// including chatty model output that merely mentions it.
	for _, raw := range []string{"LLM", "llm", "maybe", "The answer is RAG probably", ""} {
		c := newTestClassifier(&fakeProvider{response: raw})
		got, err := c.Classify(context.Background(), "what is 2+2?")
		require.NoError(t, err)
		assert.Equal(t, ClassificationLLM, got, "raw %q", raw)
	}
}

func TestClassifyPropagatesProviderError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClassifier(&fakeProvider{err: boom})

	got, err := c.Classify(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, got)
}

func TestClassifyPromptMentionsTopicAndQuery(t *testing.T) {
	provider := &fakeProvider{response: "LLM"}
	c := newTestClassifier(provider)

	_, err := c.Classify(context.Background(), "does free will exist?")
	require.NoError(t, err)

	assert.True(t, strings.Contains(provider.lastPrompt, "Jordan Peterson"))
	assert.True(t, strings.Contains(provider.lastPrompt, "does free will exist?"))
	assert.True(t, strings.Contains(provider.lastPrompt, "Only output the classification word"))
}
