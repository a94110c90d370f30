package convo

import (
	"fmt"
	"log"
	"strings"

	"hybrid-chatbot-be/pkg/store"
)

// Status values of a processed turn, mirrored 1:1 onto the HTTP envelope.
type Status string

const (
	StatusSuccess         Status = "success"
	StatusValidationError Status = "validation_error"
	StatusError           Status = "error"
	StatusComplete        Status = "complete"
)

// Result is the outcome of one conversation turn.
type Result struct {
	Status     Status
	BotMessage string
	IsComplete bool
	Data       map[string]string
	Mode       string
}

// Engine owns the Initial/Flow portion of the session state machine. It
// mutates the session it is handed; callers are responsible for serializing
// access per session id.
type Engine struct {
	script Script
	topic  string
	logger *log.Logger
}

// NewEngine creates the intake engine. topic names the knowledge domain the
// RAG mode covers and is only used in user-facing copy.
func NewEngine(script Script, topic string, logger *log.Logger) *Engine {
	return &Engine{
		script: script,
		topic:  topic,
		logger: logger,
	}
}

// ParseModeSelection maps a mode-selection reply onto a session mode. The
// match is an exact token comparison after trimming and lowercasing, so
// inputs that merely contain "flow" (e.g. "overflow") do not select a mode.
func ParseModeSelection(input string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "flow":
		return store.ModeFlow, true
	case "rag":
		return store.ModeRAG, true
	}
	return "", false
}

// HandleTurn processes one turn for a session in initial or flow mode.
// It returns nil when the session mode is outside the set this engine knows,
// leaving the unexpected-state policy to the caller.
func (e *Engine) HandleTurn(s *store.Session, input string) *Result {
	switch s.Mode {
	case store.ModeInitial:
		return e.handleInitial(s, input)
	case store.ModeFlow:
		return e.handleFlow(s, input)
	}
	return nil
}

func (e *Engine) handleInitial(s *store.Session, input string) *Result {
	if strings.TrimSpace(input) == "" {
		// First contact: emit the mode-selection prompt, mutate nothing.
		return &Result{
			Status:     StatusSuccess,
			BotMessage: e.InitialPrompt(),
			Data:       map[string]string{},
			Mode:       store.ModeInitial,
		}
	}

	mode, ok := ParseModeSelection(input)
	if !ok {
		// Rejected selections are not part of the transcript.
		return &Result{
			Status:     StatusValidationError,
			BotMessage: e.invalidModeMessage(),
			Data:       map[string]string{},
			Mode:       store.ModeInitial,
		}
	}

	if mode == store.ModeFlow {
		s.Mode = store.ModeFlow
		// Fall through so the first flow prompt is emitted on this turn.
		return e.handleFlow(s, "")
	}

	s.Mode = store.ModeRAG
	ack := fmt.Sprintf("RAG Chatbot selected. Ask me any question about %s.", e.topic)
	s.History = append(s.History,
		store.Message{Role: store.RoleUser, Content: input},
		store.Message{Role: store.RoleAssistant, Content: ack},
	)
	return &Result{
		Status:     StatusSuccess,
		BotMessage: ack,
		Data:       map[string]string{},
		Mode:       store.ModeRAG,
	}
}

func (e *Engine) handleFlow(s *store.Session, input string) *Result {
	if s.IsComplete {
		return &Result{
			Status:     StatusComplete,
			BotMessage: "Flow is already complete. Use the reset endpoint to start over.",
			IsComplete: true,
			Data:       copyAnswers(s.Answers),
			Mode:       store.ModeFlow,
		}
	}

	// An empty input never counts as an answer: it only (re)fetches the
	// current prompt below.
	if input != "" && s.StepIndex < len(e.script) {
		step := e.script[s.StepIndex]
		if _, err := ValidateField(step.Field, input); err != nil {
			return &Result{
				Status:     StatusValidationError,
				BotMessage: fmt.Sprintf("Input Error: %s Please try again.", err.Error()),
				Data:       copyAnswers(s.Answers),
				Mode:       store.ModeFlow,
			}
		}

		s.Answers[step.Key] = input
		s.History = append(s.History, store.Message{Role: store.RoleUser, Content: input})
		s.StepIndex++
	}

	if s.StepIndex < len(e.script) {
		step := e.script[s.StepIndex]
		prompt := RenderPrompt(step, s.Answers)
		// Re-fetching the same prompt must not duplicate the transcript entry.
		if last := lastMessage(s.History); last == nil || last.StepKey != step.Key {
			s.History = append(s.History, store.Message{
				Role:    store.RoleAssistant,
				Content: prompt,
				StepKey: step.Key,
			})
		}
		return &Result{
			Status:     StatusSuccess,
			BotMessage: prompt,
			Data:       copyAnswers(s.Answers),
			Mode:       store.ModeFlow,
		}
	}

	s.IsComplete = true
	// Display-time confirmation of the assembled record; never persisted back.
	if err := ValidateRecord(s.Answers); err != nil {
		e.logger.Printf("[FLOW] Completed record failed re-validation: %v", err)
	}
	return &Result{
		Status:     StatusSuccess,
		BotMessage: "Thank you! The flow is now complete.",
		IsComplete: true,
		Data:       copyAnswers(s.Answers),
		Mode:       store.ModeFlow,
	}
}

// InitialPrompt is the mode-selection greeting shown to a fresh session.
func (e *Engine) InitialPrompt() string {
	return fmt.Sprintf(
		"Hello! I am a modular chatbot. Would you like to use the **Flow-based Project Planner** or the **%s RAG Chatbot**? (Respond with 'Flow' or 'RAG').",
		e.topic,
	)
}

// RAGActiveMessage answers an empty turn in RAG mode without invoking any
// capability.
func (e *Engine) RAGActiveMessage() string {
	return "RAG Chatbot is active. Ask your question."
}

func (e *Engine) invalidModeMessage() string {
	return fmt.Sprintf(
		"I couldn't understand that. Please respond with 'Flow' to start the Project Planner or 'RAG' to start the %s Chatbot.",
		e.topic,
	)
}

func lastMessage(history []store.Message) *store.Message {
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}

func copyAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
