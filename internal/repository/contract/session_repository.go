package contract

import "hybrid-chatbot-be/pkg/store"

// SessionRepository stores conversation sessions. Implementations are
// expected to evict idle sessions after a configured TTL.
type SessionRepository interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}
