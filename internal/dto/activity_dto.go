package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateActivityRequest struct {
	ContactId         *uuid.UUID `json:"contact_id"`
	DealId            *uuid.UUID `json:"deal_id"`
	Type              string     `json:"type" validate:"required,oneof=call meeting note email message"`
	Title             string     `json:"title" validate:"required"`
	Description       *string    `json:"description"`
	Transcript        *string    `json:"transcript"`
	TranscriptSummary *string    `json:"transcript_summary"`
	CreatedBy         *string    `json:"created_by"`
}

type CreateActivityResponse struct {
	Id uuid.UUID `json:"id"`
}

type ActivityResponse struct {
	Id                uuid.UUID  `json:"id"`
	ContactId         *uuid.UUID `json:"contact_id"`
	DealId            *uuid.UUID `json:"deal_id"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	Transcript        *string    `json:"transcript"`
	TranscriptSummary *string    `json:"transcript_summary"`
	CreatedBy         *string    `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListActivitiesRequest struct {
	ContactId string `query:"contact_id"`
	DealId    string `query:"deal_id"`
	Limit     int    `query:"limit"`
}
