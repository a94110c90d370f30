package router

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"hybrid-chatbot-be/pkg/ai/pipeline"
	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/rag/intent"
	"hybrid-chatbot-be/pkg/rag/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers Generate with the classification token and Chat with
// the canned reply, so one fake drives both the classifier and the generator.
type fakeProvider struct {
	classification string
	classifyErr    error
	reply          string
	chatErr        error
	lastChat       []llm.Message
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.classification, f.classifyErr
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastChat = history
	return f.reply, f.chatErr
}

func newTestRouter(provider llm.LLMProvider) *Router {
	discard := log.New(io.Discard, "", 0)
	classifier := intent.NewClassifier(provider, "Jordan Peterson", discard)
	generator := response.NewGenerator(provider, "Jordan Peterson", discard)
	bypass := pipeline.NewBypassPipeline(generator, discard)
	// The grounded pipeline needs a live unit of work, so these tests only
	// exercise the classification and bypass legs.
	return NewRouter(classifier, nil, bypass, discard)
}

func TestRouterExecutesBypassForLLMClassification(t *testing.T) {
	provider := &fakeProvider{classification: "LLM", reply: "Four."}
	r := newTestRouter(provider)

	result, err := r.Execute(context.Background(), nil, "what is 2+2?", nil)
	require.NoError(t, err)

	assert.Equal(t, intent.ClassificationLLM, result.Classification)
	assert.Equal(t, "Four.", result.Reply)
	assert.Empty(t, result.Sources)
}

func TestRouterPassesHistoryToBypass(t *testing.T) {
	provider := &fakeProvider{classification: "maybe", reply: "ok"}
	r := newTestRouter(provider)

	history := []llm.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}

	_, err := r.Execute(context.Background(), nil, "follow-up", history)
	require.NoError(t, err)

	// system + history + current query
	require.Len(t, provider.lastChat, 4)
	assert.Equal(t, "system", provider.lastChat[0].Role)
	assert.Equal(t, "hello", provider.lastChat[1].Content)
	assert.Equal(t, "follow-up", provider.lastChat[3].Content)
}

func TestRouterPropagatesClassifierError(t *testing.T) {
	boom := errors.New("provider down")
	provider := &fakeProvider{classifyErr: boom}
	r := newTestRouter(provider)

	result, err := r.Execute(context.Background(), nil, "anything", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}

func TestRouterPropagatesGenerationError(t *testing.T) {
	provider := &fakeProvider{classification: "LLM", chatErr: errors.New("timeout")}
	r := newTestRouter(provider)

	result, err := r.Execute(context.Background(), nil, "anything", nil)
	require.Error(t, err)
	assert.Nil(t, result)
}
