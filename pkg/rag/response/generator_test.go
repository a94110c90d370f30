package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	reply    string
	err      error
	lastChat []llm.Message
}

func (r *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return r.reply, r.err
}

func (r *recordingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	r.lastChat = history
	return r.reply, r.err
}

func newTestGenerator(provider llm.LLMProvider) *Generator {
	return NewGenerator(provider, "Jordan Peterson", log.New(io.Discard, "", 0))
}

func TestGenerateGroundedPromptShape(t *testing.T) {
	provider := &recordingProvider{reply: "He speaks of order."}
	g := newTestGenerator(provider)

	docs := []store.Document{
		{Title: "Maps of Meaning", Content: "first chunk"},
		{Title: "12 Rules", Content: "second chunk"},
	}
	history := []llm.Message{{Role: "user", Content: "earlier"}}

	answer, err := g.GenerateGrounded(context.Background(), "what about order?", docs, history)
	require.NoError(t, err)
	assert.Equal(t, "He speaks of order.", answer)

	require.Len(t, provider.lastChat, 3)
	system := provider.lastChat[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "ONLY using the following context")
	assert.Contains(t, system.Content, "first chunk\n\n---\n\nsecond chunk")
	assert.Equal(t, "earlier", provider.lastChat[1].Content)
	assert.Equal(t, "what about order?", provider.lastChat[2].Content)
}

func TestGenerateGroundedEmptyContextStillInstructsRefusal(t *testing.T) {
	provider := &recordingProvider{reply: "I cannot answer based on the provided documents."}
	g := newTestGenerator(provider)

	_, err := g.GenerateGrounded(context.Background(), "anything", nil, nil)
	require.NoError(t, err)

	system := provider.lastChat[0].Content
	assert.Contains(t, system, "state that you cannot answer")
	assert.True(t, strings.HasSuffix(system, "Context: "))
}

func TestGenerateDirectPromptShape(t *testing.T) {
	provider := &recordingProvider{reply: "Four."}
	g := newTestGenerator(provider)

	answer, err := g.GenerateDirect(context.Background(), "what is 2+2?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Four.", answer)

	require.Len(t, provider.lastChat, 2)
	assert.Contains(t, provider.lastChat[0].Content, "general knowledge assistant")
	assert.NotContains(t, provider.lastChat[0].Content, "Context:")
}

func TestGenerateErrorsAreWrapped(t *testing.T) {
	boom := errors.New("rate limited")
	g := newTestGenerator(&recordingProvider{err: boom})

	_, err := g.GenerateGrounded(context.Background(), "q", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, err = g.GenerateDirect(context.Background(), "q", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
