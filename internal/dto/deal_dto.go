package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDealRequest struct {
	Name        string     `json:"name" validate:"required"`
	UseCase     string     `json:"use_case"`
	ContactId   *uuid.UUID `json:"contact_id"`
	Stage       string     `json:"stage" validate:"omitempty,oneof=new qualified negotiating closed_won closed_lost"`
	Description string     `json:"description"`
}

type CreateDealResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateDealRequest struct {
	Id          uuid.UUID
	Name        string     `json:"name" validate:"required"`
	UseCase     string     `json:"use_case"`
	ContactId   *uuid.UUID `json:"contact_id"`
	Description string     `json:"description"`
}

type UpdateDealResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveDealStageRequest struct {
	Id        uuid.UUID
	Stage     string `json:"stage" validate:"required,oneof=new qualified negotiating closed_won closed_lost"`
	SortOrder *int   `json:"sort_order"`
}

type MoveDealStageResponse struct {
	Id    uuid.UUID `json:"id"`
	Stage string    `json:"stage"`
}

type DealContactSummary struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company *string   `json:"company"`
}

type DealNoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	Author    *string    `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type DealAttachmentResponse struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DealResponse struct {
	Id              uuid.UUID                 `json:"id"`
	Name            string                    `json:"name"`
	UseCase         string                    `json:"use_case"`
	Stage           string                    `json:"stage"`
	Signal          string                    `json:"signal"`
	SignalRationale *string                   `json:"signal_rationale"`
	Description     string                    `json:"description"`
	SortOrder       int                       `json:"sort_order"`
	Contact         *DealContactSummary       `json:"contact"`
	Notes           []*DealNoteResponse       `json:"notes"`
	Attachments     []*DealAttachmentResponse `json:"attachments"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type ListDealsRequest struct {
	Stage     string `query:"stage"`
	ContactId string `query:"contact_id"`
}

type AddDealNoteRequest struct {
	DealId  uuid.UUID
	Content string  `json:"content" validate:"required"`
	Author  *string `json:"author"`
}

type UpdateDealNoteRequest struct {
	DealId  uuid.UUID
	NoteId  uuid.UUID
	Content string `json:"content" validate:"required"`
}

type AddDealAttachmentRequest struct {
	DealId uuid.UUID
	Name   string `json:"name" validate:"required"`
	URL    string `json:"url" validate:"required"`
	Size   int64  `json:"size"`
	Type   string `json:"type"`
}

type AnalyzeSignalResponse struct {
	DealId    uuid.UUID `json:"deal_id"`
	Signal    string    `json:"signal"`
	Rationale string    `json:"rationale"`
	Persisted bool      `json:"persisted"`
}

// AnalyzeDealMessage is the in-process queue payload that triggers a
// background signal re-analysis.
type AnalyzeDealMessage struct {
	DealId uuid.UUID `json:"deal_id"`
}
