package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/pkg/store"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:session:"

// SessionRepository keeps sessions in Redis so multiple instances can
// share state. Sessions are stored as JSON with a sliding TTL.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration, logger *log.Logger) contract.SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		r.logger.Printf("[ERROR] Failed to marshal session %s: %v", session.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		r.logger.Printf("[ERROR] Failed to save session %s: %v", session.ID, err)
	}
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.logger.Printf("[ERROR] Failed to load session %s: %v", sessionID, err)
		}
		return nil, false
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Printf("[ERROR] Corrupt session payload for %s: %v", sessionID, err)
		return nil, false
	}

	return &session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		r.logger.Printf("[ERROR] Failed to delete session %s: %v", sessionID, err)
	}
}
