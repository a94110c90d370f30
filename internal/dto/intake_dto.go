package dto

import (
	"time"

	"github.com/google/uuid"
)

type IntakeSubmissionResponse struct {
	Id        uuid.UUID         `json:"id"`
	SessionID string            `json:"session_id"`
	Answers   map[string]string `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}
