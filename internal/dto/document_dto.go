package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Source  string `json:"source"`
	Content string `json:"content" validate:"required"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PublishEmbedDocumentMessage is the embed job payload sent through the
// in-process queue after a document write.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
}

type SemanticSearchResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Chunk      string    `json:"chunk"`
	Similarity float64   `json:"similarity"`
}
