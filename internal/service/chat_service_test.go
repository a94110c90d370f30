package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"hybrid-chatbot-be/internal/dto"
	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/internal/repository/memory"
	"hybrid-chatbot-be/internal/repository/specification"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/ai/pipeline"
	"hybrid-chatbot-be/pkg/ai/router"
	"hybrid-chatbot-be/pkg/convo"
	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/rag/intent"
	"hybrid-chatbot-be/pkg/rag/response"
	"hybrid-chatbot-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeIntakeRepo struct {
	created []*entity.IntakeSubmission
}

func (f *fakeIntakeRepo) Create(ctx context.Context, submission *entity.IntakeSubmission) error {
	f.created = append(f.created, submission)
	return nil
}

func (f *fakeIntakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeIntakeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IntakeSubmission, error) {
	return nil, nil
}

func (f *fakeIntakeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntakeSubmission, error) {
	return f.created, nil
}

func (f *fakeIntakeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeUnitOfWork struct {
	intake *fakeIntakeRepo
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return nil }
func (f *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}
func (f *fakeUnitOfWork) IntakeSubmissionRepository() contract.IntakeSubmissionRepository {
	return f.intake
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// fakeProvider drives both the classifier (Generate) and the generator (Chat).
type fakeProvider struct {
	classification string
	reply          string
	chatErr        error
	lastChat       []llm.Message
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.classification, nil
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastChat = history
	return f.reply, f.chatErr
}

type chatFixture struct {
	service  IChatService
	sessions contract.SessionRepository
	intake   *fakeIntakeRepo
	provider *fakeProvider
}

func newChatFixture() *chatFixture {
	discard := log.New(io.Discard, "", 0)
	provider := &fakeProvider{classification: "LLM", reply: "A direct answer."}

	engine := convo.NewEngine(convo.DefaultScript(), "Jordan Peterson", discard)
	classifier := intent.NewClassifier(provider, "Jordan Peterson", discard)
	generator := response.NewGenerator(provider, "Jordan Peterson", discard)
	bypass := pipeline.NewBypassPipeline(generator, discard)
	aiRouter := router.NewRouter(classifier, nil, bypass, discard)

	sessions := memory.NewSessionRepository(time.Minute)
	intakeRepo := &fakeIntakeRepo{}
	factory := &fakeFactory{uow: &fakeUnitOfWork{intake: intakeRepo}}

	svc := NewChatService(sessions, engine, aiRouter, factory, nil, noopLogger{})

	return &chatFixture{
		service:  svc,
		sessions: sessions,
		intake:   intakeRepo,
		provider: provider,
	}
}

func (f *chatFixture) turn(sessionID, input string) *dto.ChatTurnResponse {
	return f.service.HandleTurn(context.Background(), &dto.ChatTurnRequest{
		SessionID: sessionID,
		UserInput: input,
	})
}

// ---- tests ----

func TestHandleTurnNewSessionGreeting(t *testing.T) {
	f := newChatFixture()

	res := f.turn("s1", "")

	assert.Equal(t, "success", res.Status)
	assert.Contains(t, res.BotMessage, "Respond with 'Flow' or 'RAG'")
	assert.False(t, res.IsComplete)
	assert.Equal(t, store.ModeInitial, res.Mode)

	session, found := f.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, store.ModeInitial, session.Mode)
}

func TestHandleTurnFlowCompletionPersistsOneSubmission(t *testing.T) {
	f := newChatFixture()

	f.turn("s1", "Flow")
	f.turn("s1", "Alex Johnson")
	f.turn("s1", "Web App Development")
	f.turn("s1", "8")
	res := f.turn("s1", "10000")

	assert.Equal(t, "success", res.Status)
	assert.True(t, res.IsComplete)
	assert.Equal(t, "Thank you! The flow is now complete.", res.BotMessage)
	assert.Equal(t, "Alex Johnson", res.Data["name"])

	require.Len(t, f.intake.created, 1)
	sub := f.intake.created[0]
	assert.Equal(t, "s1", sub.SessionId)
	assert.Equal(t, "10000", sub.Answers["budget"])

	// Turns after completion report the state without recording again.
	after := f.turn("s1", "hello?")
	assert.Equal(t, "complete", after.Status)
	assert.True(t, after.IsComplete)
	assert.Len(t, f.intake.created, 1)
}

func TestHandleTurnValidationErrorEnvelope(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "Flow")

	res := f.turn("s1", "Al")

	assert.Equal(t, "validation_error", res.Status)
	assert.Contains(t, res.BotMessage, "Input Error:")
	assert.False(t, res.IsComplete)
	assert.Empty(t, f.intake.created)
}

func TestHandleTurnRAGEmptyInput(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "RAG")

	res := f.turn("s1", "")

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "RAG Chatbot is active. Ask your question.", res.BotMessage)
	assert.Equal(t, store.ModeRAG, res.Mode)

	// Re-arming never grows the transcript.
	session, _ := f.sessions.Get("s1")
	assert.Len(t, session.History, 2)
}

func TestHandleTurnRAGAnswerAppendsHistory(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "RAG")

	res := f.turn("s1", "what is 2+2?")

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "A direct answer.", res.BotMessage)

	session, _ := f.sessions.Get("s1")
	require.Len(t, session.History, 4)
	assert.Equal(t, "what is 2+2?", session.History[2].Content)
	assert.Equal(t, "A direct answer.", session.History[3].Content)
	assert.Equal(t, "what is 2+2?", session.LastQuery)
}

func TestHandleTurnRAGFailureIsRecordedButExcludedFromContext(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "RAG")

	f.provider.chatErr = errors.New("provider down")
	res := f.turn("s1", "a doomed question")

	assert.Equal(t, "error", res.Status)
	assert.Equal(t, "Sorry, I ran into a problem answering that. Please try again.", res.BotMessage)

	session, _ := f.sessions.Get("s1")
	require.Len(t, session.History, 3)
	assert.True(t, session.History[2].Failed)

	// The failed turn must not leak into the next model call.
	f.provider.chatErr = nil
	f.turn("s1", "a working question")
	for _, m := range f.provider.lastChat {
		assert.NotEqual(t, "a doomed question", m.Content)
	}
}

func TestHandleTurnUnexpectedModeResetsSession(t *testing.T) {
	f := newChatFixture()

	corrupt := store.NewSession("s1")
	corrupt.Mode = "weird"
	corrupt.Answers["name"] = "stale"
	f.sessions.Save(corrupt)

	res := f.turn("s1", "hello")

	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.BotMessage, "has been restarted")
	assert.Equal(t, store.ModeInitial, res.Mode)

	session, found := f.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, store.ModeInitial, session.Mode)
	assert.Empty(t, session.Answers)
}

func TestResetIsIdempotent(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "Flow")
	f.turn("s1", "Alex Johnson")

	res := f.service.Reset(context.Background(), &dto.ResetSessionRequest{SessionID: "s1"})
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Flow state reset. Please start your conversation.", res.BotMessage)
	assert.False(t, res.IsComplete)
	assert.Empty(t, res.Data)
	assert.Equal(t, store.ModeInitial, res.Mode)

	session, found := f.sessions.Get("s1")
	require.True(t, found)
	assert.Equal(t, store.ModeInitial, session.Mode)
	assert.Empty(t, session.Answers)

	// Resetting an unknown session still produces a fresh one.
	res = f.service.Reset(context.Background(), &dto.ResetSessionRequest{SessionID: "never-seen"})
	assert.Equal(t, store.ModeInitial, res.Mode)
	_, found = f.sessions.Get("never-seen")
	assert.True(t, found)
}

func TestHistoryReturnsTranscript(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "Flow")
	f.turn("s1", "Alex Johnson")

	res := f.service.History(context.Background(), "s1")

	assert.Equal(t, "s1", res.SessionID)
	assert.Equal(t, store.ModeFlow, res.Mode)
	require.NotEmpty(t, res.Messages)
	assert.Equal(t, "Welcome! To start, what is your **full name**?", res.Messages[0].Content)
	assert.Equal(t, "name", res.Messages[0].StepKey)
}

func TestHandleTurnSerializesConcurrentTurns(t *testing.T) {
	f := newChatFixture()
	f.turn("s1", "Flow")

	// Concurrent turns on one session must be processed one at a time: the
	// step index stays in bounds and every accepted answer lands in order.
	var wg sync.WaitGroup
	inputs := []string{"Alex Johnson", "Web App Development", "8", "10000", "", "Al"}
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(in string) {
			defer wg.Done()
			f.turn("s1", in)
		}(inputs[i%len(inputs)])
	}
	wg.Wait()

	session, found := f.sessions.Get("s1")
	require.True(t, found)
	assert.GreaterOrEqual(t, session.StepIndex, 0)
	assert.LessOrEqual(t, session.StepIndex, 4)
	// Each advanced step left exactly one accepted answer behind.
	assert.Len(t, session.Answers, session.StepIndex)
	if session.IsComplete {
		assert.Equal(t, 4, session.StepIndex)
	}
	// At most one submission regardless of how many turns raced.
	assert.LessOrEqual(t, len(f.intake.created), 1)
}

func TestHistoryUnknownSessionIsEmpty(t *testing.T) {
	f := newChatFixture()

	res := f.service.History(context.Background(), "ghost")

	assert.Equal(t, "ghost", res.SessionID)
	assert.Equal(t, store.ModeInitial, res.Mode)
	assert.Empty(t, res.Messages)
}
