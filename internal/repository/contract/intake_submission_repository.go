package contract

import (
	"context"

	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IntakeSubmissionRepository interface {
	Create(ctx context.Context, submission *entity.IntakeSubmission) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IntakeSubmission, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntakeSubmission, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
