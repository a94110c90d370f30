package memory

import (
	"time"

	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates an in-process session store. Sessions idle
// longer than ttl are evicted; expired items are purged every 10 minutes.
func NewSessionRepository(ttl time.Duration) contract.SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Save refreshes the TTL on every write, so an active conversation
// never expires mid-flow.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
