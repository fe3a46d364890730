package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateContactRequest struct {
	FirstName          string   `json:"first_name" validate:"required"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              *string  `json:"phone"`
	Company            *string  `json:"company"`
	Position           *string  `json:"position"`
	Tags               []string `json:"tags"`
	Address            *string  `json:"address"`
	Linkedin           *string  `json:"linkedin"`
	AcquisitionChannel *string  `json:"acquisition_channel"`
}

type CreateContactResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateContactRequest struct {
	Id                 uuid.UUID
	FirstName          string   `json:"first_name" validate:"required"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              *string  `json:"phone"`
	Company            *string  `json:"company"`
	Position           *string  `json:"position"`
	Status             string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Tags               []string `json:"tags"`
	Address            *string  `json:"address"`
	Linkedin           *string  `json:"linkedin"`
	AcquisitionChannel *string  `json:"acquisition_channel"`
}

type UpdateContactResponse struct {
	Id uuid.UUID `json:"id"`
}

type ContactResponse struct {
	Id                 uuid.UUID  `json:"id"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone"`
	Company            *string    `json:"company"`
	Position           *string    `json:"position"`
	Status             string     `json:"status"`
	Tags               []string   `json:"tags"`
	Address            *string    `json:"address"`
	Linkedin           *string    `json:"linkedin"`
	AcquisitionChannel *string    `json:"acquisition_channel"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

type ListContactsRequest struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type ListContactsResponse struct {
	Contacts []*ContactResponse `json:"contacts"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}
