package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Contact struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName          string    `gorm:"type:varchar(255);not null"`
	LastName           string    `gorm:"type:varchar(255);not null"`
	Email              string    `gorm:"type:varchar(255);not null;index"`
	Phone              *string   `gorm:"type:varchar(64)"`
	Company            *string   `gorm:"type:varchar(255);index"`
	Position           *string   `gorm:"type:varchar(255)"`
	Status             string    `gorm:"type:varchar(16);not null;default:active"`
	Tags               datatypes.JSON
	Address            *string `gorm:"type:text"`
	Linkedin           *string `gorm:"type:varchar(255)"`
	AcquisitionChannel *string `gorm:"type:varchar(255)"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}
