package entity

import (
	"time"

	"github.com/google/uuid"
)

type IntakeSubmission struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId string
	Answers   map[string]string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
