package specification

import "gorm.io/gorm"

// BySessionID filters intake submissions by their originating session.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
