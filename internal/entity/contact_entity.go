package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusActive   ContactStatus = "active"
	ContactStatusInactive ContactStatus = "inactive"
)

type Contact struct {
	Id                 uuid.UUID
	FirstName          string
	LastName           string
	Email              string
	Phone              *string
	Company            *string
	Position           *string
	Status             ContactStatus
	Tags               []string
	Address            *string
	Linkedin           *string
	AcquisitionChannel *string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
