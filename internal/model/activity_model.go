package model

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContactId         *uuid.UUID `gorm:"type:uuid;index"`
	DealId            *uuid.UUID `gorm:"type:uuid;index"`
	Type              string     `gorm:"type:varchar(16);not null"`
	Title             string     `gorm:"type:varchar(255);not null"`
	Description       *string    `gorm:"type:text"`
	Transcript        *string    `gorm:"type:text"`
	TranscriptSummary *string    `gorm:"type:text"`
	CreatedBy         *string    `gorm:"type:varchar(255)"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index"`
}

func (Activity) TableName() string {
	return "activities"
}
