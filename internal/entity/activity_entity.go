package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityMeeting ActivityType = "meeting"
	ActivityNote    ActivityType = "note"
	ActivityEmail   ActivityType = "email"
	ActivityMessage ActivityType = "message"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityMeeting, ActivityNote, ActivityEmail, ActivityMessage:
		return true
	}
	return false
}

// Activity is a logged interaction. Exactly one of ContactId/DealId is set for
// scoped activities; deal-scoped activities may also carry the contact.
type Activity struct {
	Id                uuid.UUID
	ContactId         *uuid.UUID
	DealId            *uuid.UUID
	Type              ActivityType
	Title             string
	Description       *string
	Transcript        *string
	TranscriptSummary *string
	CreatedBy         *string
	CreatedAt         time.Time
}
