package service

import (
	"context"

	"hybrid-chatbot-be/internal/dto"
	"hybrid-chatbot-be/internal/repository/specification"
	"hybrid-chatbot-be/internal/repository/unitofwork"
)

type IIntakeService interface {
	List(ctx context.Context) ([]*dto.IntakeSubmissionResponse, error)
	ListBySession(ctx context.Context, sessionID string) ([]*dto.IntakeSubmissionResponse, error)
}

type intakeService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewIntakeService(uowFactory unitofwork.RepositoryFactory) IIntakeService {
	return &intakeService{
		uowFactory: uowFactory,
	}
}

func (s *intakeService) List(ctx context.Context) ([]*dto.IntakeSubmissionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	submissions, err := uow.IntakeSubmissionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.IntakeSubmissionResponse, len(submissions))
	for i, sub := range submissions {
		responses[i] = &dto.IntakeSubmissionResponse{
			Id:        sub.Id,
			SessionID: sub.SessionId,
			Answers:   sub.Answers,
			CreatedAt: sub.CreatedAt,
		}
	}
	return responses, nil
}

func (s *intakeService) ListBySession(ctx context.Context, sessionID string) ([]*dto.IntakeSubmissionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	submissions, err := uow.IntakeSubmissionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.IntakeSubmissionResponse, len(submissions))
	for i, sub := range submissions {
		responses[i] = &dto.IntakeSubmissionResponse{
			Id:        sub.Id,
			SessionID: sub.SessionId,
			Answers:   sub.Answers,
			CreatedAt: sub.CreatedAt,
		}
	}
	return responses, nil
}
