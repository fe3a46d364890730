package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Deal struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContactId       *uuid.UUID `gorm:"type:uuid;index"`
	Name            string     `gorm:"type:varchar(255);not null"`
	UseCase         string     `gorm:"type:text"`
	Stage           string     `gorm:"type:varchar(32);not null;index"`
	Signal          string     `gorm:"type:varchar(16);not null;default:neutral"`
	SignalRationale *string    `gorm:"type:text"`
	Description     string     `gorm:"type:text"`
	Notes           datatypes.JSON
	Attachments     datatypes.JSON
	SortOrder       int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	Contact *Contact `gorm:"foreignKey:ContactId;constraint:OnDelete:SET NULL"`
}

func (Deal) TableName() string {
	return "deals"
}
