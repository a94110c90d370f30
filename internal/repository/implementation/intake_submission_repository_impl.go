package implementation

import (
	"context"
	"errors"

	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/mapper"
	"hybrid-chatbot-be/internal/model"
	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntakeSubmissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntakeSubmissionMapper
}

func NewIntakeSubmissionRepository(db *gorm.DB) contract.IntakeSubmissionRepository {
	return &IntakeSubmissionRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntakeSubmissionMapper(),
	}
}

func (r *IntakeSubmissionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IntakeSubmissionRepositoryImpl) Create(ctx context.Context, submission *entity.IntakeSubmission) error {
	m := r.mapper.ToModel(submission)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*submission = *r.mapper.ToEntity(m)
	return nil
}

func (r *IntakeSubmissionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.IntakeSubmission{}, id).Error
}

func (r *IntakeSubmissionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IntakeSubmission, error) {
	var m model.IntakeSubmission
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IntakeSubmissionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntakeSubmission, error) {
	var models []*model.IntakeSubmission
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *IntakeSubmissionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.IntakeSubmission{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
