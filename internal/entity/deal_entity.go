package entity

import (
	"time"

	"github.com/google/uuid"
)

type DealStage string

const (
	StageNew         DealStage = "new"
	StageQualified   DealStage = "qualified"
	StageNegotiating DealStage = "negotiating"
	StageClosedWon   DealStage = "closed_won"
	StageClosedLost  DealStage = "closed_lost"
)

func (s DealStage) Valid() bool {
	switch s {
	case StageNew, StageQualified, StageNegotiating, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

type DealSignal string

const (
	SignalPositive DealSignal = "positive"
	SignalNeutral  DealSignal = "neutral"
	SignalNegative DealSignal = "negative"
)

func (s DealSignal) Valid() bool {
	switch s {
	case SignalPositive, SignalNeutral, SignalNegative:
		return true
	}
	return false
}

// DealNote lives inside the deal's JSONB notes column. Soft-deleted notes keep
// their row for audit; DeletedAt marks them as logically removed.
type DealNote struct {
	Id        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	Author    *string    `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func (n *DealNote) Deleted() bool {
	return n.DeletedAt != nil
}

// DealAttachment is file metadata only; binary storage is external.
type DealAttachment struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Deal struct {
	Id              uuid.UUID
	ContactId       *uuid.UUID
	Name            string
	UseCase         string
	Stage           DealStage
	Signal          DealSignal
	SignalRationale *string
	Description     string
	Notes           []DealNote
	Attachments     []DealAttachment
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActiveNotes returns the non-deleted notes, newest first.
func (d *Deal) ActiveNotes() []DealNote {
	notes := make([]DealNote, 0, len(d.Notes))
	for _, n := range d.Notes {
		if !n.Deleted() {
			notes = append(notes, n)
		}
	}
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
	return notes
}
