package mapper

import (
	"encoding/json"
	"time"

	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IntakeSubmissionMapper struct{}

func NewIntakeSubmissionMapper() *IntakeSubmissionMapper {
	return &IntakeSubmissionMapper{}
}

func (m *IntakeSubmissionMapper) ToEntity(s *model.IntakeSubmission) *entity.IntakeSubmission {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	answers := make(map[string]string)
	if len(s.Answers) > 0 {
		// A malformed row yields an empty answer map rather than an error.
		_ = json.Unmarshal(s.Answers, &answers)
	}

	return &entity.IntakeSubmission{
		Id:        s.Id,
		SessionId: s.SessionId,
		Answers:   answers,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *IntakeSubmissionMapper) ToModel(s *entity.IntakeSubmission) *model.IntakeSubmission {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	answers, _ := json.Marshal(s.Answers)

	return &model.IntakeSubmission{
		Id:        s.Id,
		SessionId: s.SessionId,
		Answers:   datatypes.JSON(answers),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *IntakeSubmissionMapper) ToEntities(submissions []*model.IntakeSubmission) []*entity.IntakeSubmission {
	entities := make([]*entity.IntakeSubmission, len(submissions))
	for i, s := range submissions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
