package convo

import (
	"io"
	"log"
	"testing"

	"hybrid-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultScript(), "Jordan Peterson", log.New(io.Discard, "", 0))
}

func TestParseModeSelection(t *testing.T) {
	tests := []struct {
		input    string
		wantMode string
		wantOK   bool
	}{
		{"Flow", store.ModeFlow, true},
		{"flow", store.ModeFlow, true},
		{"  FLOW  ", store.ModeFlow, true},
		{"RAG", store.ModeRAG, true},
		{"rag", store.ModeRAG, true},
		{"overflow", "", false},
		{"ragtime", "", false},
		{"start the flow", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		mode, ok := ParseModeSelection(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		assert.Equal(t, tt.wantMode, mode, "input %q", tt.input)
	}
}

func TestEngineInitialEmptyInput(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")

	result := e.HandleTurn(s, "")
	require.NotNil(t, result)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, e.InitialPrompt(), result.BotMessage)
	assert.Equal(t, store.ModeInitial, s.Mode)
	assert.Empty(t, s.History, "greeting turns must not mutate the transcript")
}

func TestEngineInitialInvalidSelection(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")

	result := e.HandleTurn(s, "overflow")
	require.NotNil(t, result)

	assert.Equal(t, StatusValidationError, result.Status)
	assert.Equal(t, store.ModeInitial, s.Mode)
	assert.Empty(t, s.History)
	assert.Equal(t, 0, s.StepIndex)
}

func TestEngineSelectFlowEmitsFirstPrompt(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")

	result := e.HandleTurn(s, "Flow")
	require.NotNil(t, result)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, store.ModeFlow, s.Mode)
	assert.Equal(t, "Welcome! To start, what is your **full name**?", result.BotMessage)
	require.Len(t, s.History, 1)
	assert.Equal(t, FieldName, s.History[0].StepKey)
}

func TestEngineSelectRAG(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")

	result := e.HandleTurn(s, "rag")
	require.NotNil(t, result)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, store.ModeRAG, s.Mode)
	require.Len(t, s.History, 2)
	assert.Equal(t, store.RoleUser, s.History[0].Role)
	assert.Equal(t, store.RoleAssistant, s.History[1].Role)
}

func TestEngineFlowRejectedInputMutatesNothing(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	e.HandleTurn(s, "Flow")

	before := len(s.History)
	result := e.HandleTurn(s, "Al") // too short for a name

	assert.Equal(t, StatusValidationError, result.Status)
	assert.Equal(t, "Input Error: Name must be at least 3 characters long. Please try again.", result.BotMessage)
	assert.Equal(t, 0, s.StepIndex)
	assert.Empty(t, s.Answers)
	assert.Len(t, s.History, before, "rejected inputs must not enter the transcript")

	// Rejection is repeatable without drift
	again := e.HandleTurn(s, "Al")
	assert.Equal(t, result.BotMessage, again.BotMessage)
	assert.Equal(t, 0, s.StepIndex)
}

func TestEngineFlowAcceptAdvancesOneStep(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	e.HandleTurn(s, "Flow")

	result := e.HandleTurn(s, "Alex Johnson")

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, s.StepIndex)
	assert.Equal(t, "Alex Johnson", s.Answers[FieldName])
	assert.Equal(t, "What **type of project** are you planning?", result.BotMessage)
}

func TestEngineFlowEmptyInputRefetchesPromptWithoutDuplicates(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	e.HandleTurn(s, "Flow")

	before := len(s.History)
	first := e.HandleTurn(s, "")
	second := e.HandleTurn(s, "")

	assert.Equal(t, first.BotMessage, second.BotMessage)
	assert.Equal(t, 0, s.StepIndex)
	assert.Len(t, s.History, before, "re-fetching a prompt must not duplicate it")
}

func TestEngineFlowValidationMessages(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	e.HandleTurn(s, "Flow")
	e.HandleTurn(s, "Alex Johnson")
	e.HandleTurn(s, "Web App Development")

	result := e.HandleTurn(s, "abc")
	assert.Equal(t, StatusValidationError, result.Status)
	assert.Contains(t, result.BotMessage, "Duration must be a valid integer.")

	e.HandleTurn(s, "8")

	result = e.HandleTurn(s, "50")
	assert.Equal(t, StatusValidationError, result.Status)
	assert.Contains(t, result.BotMessage, "Budget must be greater than $100.")
}

func TestEngineFlowCompletion(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")

	e.HandleTurn(s, "Flow")
	e.HandleTurn(s, "Alex Johnson")
	e.HandleTurn(s, "Web App Development")
	e.HandleTurn(s, "8")
	result := e.HandleTurn(s, "10000")

	require.NotNil(t, result)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.IsComplete)
	assert.True(t, s.IsComplete)
	assert.Equal(t, "Thank you! The flow is now complete.", result.BotMessage)
	assert.Equal(t, map[string]string{
		FieldName:        "Alex Johnson",
		FieldProjectType: "Web App Development",
		FieldDuration:    "8",
		FieldBudget:      "10000",
	}, result.Data)

	// Further turns report completion without mutating anything
	after := e.HandleTurn(s, "hello again")
	assert.Equal(t, StatusComplete, after.Status)
	assert.True(t, after.IsComplete)
	assert.Equal(t, "Flow is already complete. Use the reset endpoint to start over.", after.BotMessage)
	assert.Equal(t, result.Data, after.Data)
}

func TestEngineFlowStepIndexMonotonic(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	e.HandleTurn(s, "Flow")

	inputs := []string{"Al", "Alex Johnson", "", "Website", "Web App Development", "abc", "-1", "8", "99", "10000"}
	last := s.StepIndex
	for _, in := range inputs {
		e.HandleTurn(s, in)
		assert.GreaterOrEqual(t, s.StepIndex, last, "step index must never move backwards")
		assert.LessOrEqual(t, s.StepIndex-last, 1, "step index advances at most one per turn")
		last = s.StepIndex
	}
	assert.True(t, s.IsComplete)
}

func TestEngineResetReplayIsDeterministic(t *testing.T) {
	e := newTestEngine()
	inputs := []string{"Flow", "Alex Johnson", "Web App Development", "8", "10000"}

	run := func() *store.Session {
		s := store.NewSession("s1")
		for _, in := range inputs {
			e.HandleTurn(s, in)
		}
		return s
	}

	first := run()
	second := run()

	assert.Equal(t, first.Answers, second.Answers)
	assert.Equal(t, first.StepIndex, second.StepIndex)
	assert.Equal(t, first.IsComplete, second.IsComplete)
	require.Equal(t, len(first.History), len(second.History))
	for i := range first.History {
		assert.Equal(t, first.History[i], second.History[i])
	}
}

func TestEngineUnknownModeReturnsNil(t *testing.T) {
	e := newTestEngine()
	s := store.NewSession("s1")
	s.Mode = "corrupted"

	assert.Nil(t, e.HandleTurn(s, "hello"))
}
