package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hybrid-chatbot-be/internal/dto"
	"hybrid-chatbot-be/internal/entity"
	"hybrid-chatbot-be/internal/pkg/logger"
	"hybrid-chatbot-be/internal/repository/specification"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/pkg/embedding"
	"hybrid-chatbot-be/pkg/events"
	pktNats "hybrid-chatbot-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context) ([]*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SemanticSearch(ctx context.Context, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	log               logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Source:    req.Source,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	// Embedding runs async so the write path stays fast
	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId: document.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.DocumentIngested,
			Data: map[string]interface{}{
				"document_id": document.Id,
				"title":       document.Title,
			},
			OccurredAt: time.Now(),
		}
		// Notification is auxiliary, log but don't fail the request
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("document", "Failed to publish DOCUMENT_INGESTED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.CreateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document not found")
	}

	return toShowDocumentResponse(document), nil
}

func (s *documentService) List(ctx context.Context) ([]*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ShowDocumentResponse, len(documents))
	for i, d := range documents {
		responses[i] = toShowDocumentResponse(d)
	}
	return responses, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// SemanticSearch exposes raw vector search for debugging the corpus.
func (s *documentService) SemanticSearch(ctx context.Context, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	embeddingRes, err := s.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	scored, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, 10, 0.0)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		return []*dto.SemanticSearchResponse{}, nil
	}

	documentIds := make([]uuid.UUID, 0, len(scored))
	for _, sc := range scored {
		documentIds = append(documentIds, sc.Embedding.DocumentId)
	}

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.ByIDs{IDs: documentIds})
	if err != nil {
		return nil, err
	}

	titleMap := make(map[uuid.UUID]*entity.Document)
	for _, d := range documents {
		titleMap[d.Id] = d
	}

	responses := make([]*dto.SemanticSearchResponse, 0, len(scored))
	for _, sc := range scored {
		res := &dto.SemanticSearchResponse{
			Id:         sc.Embedding.DocumentId,
			Chunk:      sc.Embedding.Chunk,
			Similarity: sc.Similarity,
		}
		if d, ok := titleMap[sc.Embedding.DocumentId]; ok {
			res.Title = d.Title
			res.Source = d.Source
		}
		responses = append(responses, res)
	}

	return responses, nil
}

func toShowDocumentResponse(d *entity.Document) *dto.ShowDocumentResponse {
	return &dto.ShowDocumentResponse{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
