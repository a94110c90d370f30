package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"hybrid-chatbot-be/internal/dto"
	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/pkg/logger"
	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/ai/router"
	"hybrid-chatbot-be/pkg/convo"
	"hybrid-chatbot-be/pkg/events"
	"hybrid-chatbot-be/pkg/llm"
	pktNats "hybrid-chatbot-be/pkg/nats"
	"hybrid-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

// ragTurnTimeout bounds the classify + retrieve + generate chain of one turn.
const ragTurnTimeout = 60 * time.Second

type IChatService interface {
	HandleTurn(ctx context.Context, req *dto.ChatTurnRequest) *dto.ChatTurnResponse
	Reset(ctx context.Context, req *dto.ResetSessionRequest) *dto.ChatTurnResponse
	History(ctx context.Context, sessionID string) *dto.ChatHistoryResponse
}

// sessionLockStripes is the size of the fixed mutex pool serializing turns
// per session id. A fixed pool never grows with session churn; two sessions
// hashing to the same stripe merely serialize against each other.
const sessionLockStripes = 256

// chatService is the boundary between the HTTP surface and the two
// conversation capabilities. It owns session lifecycle and serializes
// turns per session id so concurrent requests cannot interleave state.
type chatService struct {
	sessions       contract.SessionRepository
	engine         *convo.Engine
	router         *router.Router
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger

	locks [sessionLockStripes]sync.Mutex
}

func NewChatService(
	sessions contract.SessionRepository,
	engine *convo.Engine,
	aiRouter *router.Router,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:       sessions,
		engine:         engine,
		router:         aiRouter,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *chatService) lockSession(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

// HandleTurn never returns a transport error: every outcome, including
// capability failures, is expressed through the response envelope.
func (s *chatService) HandleTurn(ctx context.Context, req *dto.ChatTurnRequest) *dto.ChatTurnResponse {
	unlock := s.lockSession(req.SessionID)
	defer unlock()

	session, found := s.sessions.Get(req.SessionID)
	if !found {
		session = store.NewSession(req.SessionID)
		s.log.Info("chat", "New session created", map[string]interface{}{
			"session_id": req.SessionID,
		})
	}

	switch session.Mode {
	case store.ModeInitial, store.ModeFlow:
		result := s.engine.HandleTurn(session, req.UserInput)
		if result == nil {
			// Engine refused the mode; treat as corrupt state.
			return s.recoverSession(session)
		}
		s.sessions.Save(session)

		// StatusComplete means the flow was already finished before this
		// turn; only the completing turn itself records a submission.
		if result.IsComplete && result.Status == convo.StatusSuccess {
			s.persistIntake(ctx, session)
		}

		return &dto.ChatTurnResponse{
			Status:     string(result.Status),
			BotMessage: result.BotMessage,
			IsComplete: result.IsComplete,
			Data:       result.Data,
			Mode:       result.Mode,
		}

	case store.ModeRAG:
		return s.handleRAGTurn(ctx, session, req.UserInput)

	default:
		return s.recoverSession(session)
	}
}

func (s *chatService) handleRAGTurn(ctx context.Context, session *store.Session, input string) *dto.ChatTurnResponse {
	if input == "" {
		// An empty turn only re-states that the capability is armed.
		s.sessions.Save(session)
		return &dto.ChatTurnResponse{
			Status:     string(convo.StatusSuccess),
			BotMessage: s.engine.RAGActiveMessage(),
			IsComplete: false,
			Data:       map[string]string{},
			Mode:       store.ModeRAG,
		}
	}

	history := toLLMHistory(session.History)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A hung capability call must surface as a failed turn, not a stalled request.
	turnCtx, cancel := context.WithTimeout(ctx, ragTurnTimeout)
	defer cancel()

	result, err := s.router.Execute(turnCtx, uow, input, history)
	if err != nil {
		s.log.Error("chat", "RAG turn failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		// Failed turns stay visible in the transcript but are excluded
		// from future model context.
		session.History = append(session.History,
			store.Message{Role: store.RoleUser, Content: input, Failed: true},
		)
		session.LastQuery = input
		s.sessions.Save(session)

		return &dto.ChatTurnResponse{
			Status:     string(convo.StatusError),
			BotMessage: "Sorry, I ran into a problem answering that. Please try again.",
			IsComplete: false,
			Data:       map[string]string{},
			Mode:       store.ModeRAG,
		}
	}

	session.History = append(session.History,
		store.Message{Role: store.RoleUser, Content: input},
		store.Message{Role: store.RoleAssistant, Content: result.Reply},
	)
	session.LastQuery = input
	s.sessions.Save(session)

	s.log.Info("chat", "RAG turn answered", map[string]interface{}{
		"session_id":     session.ID,
		"classification": string(result.Classification),
		"sources":        len(result.Sources),
	})

	return &dto.ChatTurnResponse{
		Status:         string(convo.StatusSuccess),
		BotMessage:     result.Reply,
		IsComplete:     false,
		Data:           map[string]string{},
		Mode:           store.ModeRAG,
		Classification: string(result.Classification),
	}
}

// recoverSession handles a stored mode outside the known state machine.
// The session is reset for real, not just reported on, so the next turn
// starts clean.
func (s *chatService) recoverSession(session *store.Session) *dto.ChatTurnResponse {
	s.log.Warn("chat", "Unexpected session mode, resetting", map[string]interface{}{
		"session_id": session.ID,
		"mode":       session.Mode,
	})

	fresh := store.NewSession(session.ID)
	s.sessions.Save(fresh)

	return &dto.ChatTurnResponse{
		Status:     string(convo.StatusError),
		BotMessage: "Something went wrong with your session, so it has been restarted. " + s.engine.InitialPrompt(),
		IsComplete: false,
		Data:       map[string]string{},
		Mode:       store.ModeInitial,
	}
}

// persistIntake records a completed planner run and announces it on the bus.
// Persistence is best effort: the conversation outcome is already decided.
func (s *chatService) persistIntake(ctx context.Context, session *store.Session) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	submission := entity.IntakeSubmission{
		Id:        uuid.New(),
		SessionId: session.ID,
		Answers:   session.Answers,
		CreatedAt: time.Now(),
	}

	if err := uow.IntakeSubmissionRepository().Create(ctx, &submission); err != nil {
		s.log.Error("chat", "Failed to persist intake submission", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return
	}

	if s.eventPublisher != nil {
		evt := events.NewIntakeCompleted(session.ID, session.Answers)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("chat", "Failed to publish INTAKE_COMPLETED event", map[string]interface{}{
				"session_id": session.ID,
				"error":      err.Error(),
			})
		}
	}

	s.log.Info("chat", "Intake submission recorded", map[string]interface{}{
		"session_id":    session.ID,
		"submission_id": submission.Id,
	})
}

// Reset is idempotent: resetting an unknown session still yields a fresh one.
// It answers with the same envelope every turn uses.
func (s *chatService) Reset(ctx context.Context, req *dto.ResetSessionRequest) *dto.ChatTurnResponse {
	unlock := s.lockSession(req.SessionID)
	defer unlock()

	fresh := store.NewSession(req.SessionID)
	s.sessions.Save(fresh)

	s.log.Info("chat", "Session reset", map[string]interface{}{
		"session_id": req.SessionID,
	})

	return &dto.ChatTurnResponse{
		Status:     string(convo.StatusSuccess),
		BotMessage: "Flow state reset. Please start your conversation.",
		IsComplete: false,
		Data:       map[string]string{},
		Mode:       store.ModeInitial,
	}
}

func (s *chatService) History(ctx context.Context, sessionID string) *dto.ChatHistoryResponse {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, found := s.sessions.Get(sessionID)
	if !found {
		return &dto.ChatHistoryResponse{
			SessionID: sessionID,
			Mode:      store.ModeInitial,
			Messages:  []dto.ChatHistoryMessage{},
		}
	}

	messages := make([]dto.ChatHistoryMessage, len(session.History))
	for i, m := range session.History {
		messages[i] = dto.ChatHistoryMessage{
			Role:    m.Role,
			Content: m.Content,
			StepKey: m.StepKey,
			Failed:  m.Failed,
		}
	}

	return &dto.ChatHistoryResponse{
		SessionID: sessionID,
		Mode:      session.Mode,
		Messages:  messages,
	}
}

// toLLMHistory converts the transcript to model messages, dropping turns
// that never produced an answer.
func toLLMHistory(history []store.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Failed {
			continue
		}
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
