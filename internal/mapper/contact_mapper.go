package mapper

import (
	"encoding/json"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/model"

	"gorm.io/datatypes"
)

type ContactMapper struct{}

func NewContactMapper() *ContactMapper {
	return &ContactMapper{}
}

func (m *ContactMapper) ToEntity(c *model.Contact) *entity.Contact {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(c.Tags) > 0 {
		// Tags column is best-effort; a malformed value reads as no tags.
		_ = json.Unmarshal(c.Tags, &tags)
	}

	return &entity.Contact{
		Id:                 c.Id,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Email:              c.Email,
		Phone:              c.Phone,
		Company:            c.Company,
		Position:           c.Position,
		Status:             entity.ContactStatus(c.Status),
		Tags:               tags,
		Address:            c.Address,
		Linkedin:           c.Linkedin,
		AcquisitionChannel: c.AcquisitionChannel,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *ContactMapper) ToModel(c *entity.Contact) *model.Contact {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var tags datatypes.JSON
	if c.Tags != nil {
		raw, err := json.Marshal(c.Tags)
		if err == nil {
			tags = raw
		}
	}

	return &model.Contact{
		Id:                 c.Id,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Email:              c.Email,
		Phone:              c.Phone,
		Company:            c.Company,
		Position:           c.Position,
		Status:             string(c.Status),
		Tags:               tags,
		Address:            c.Address,
		Linkedin:           c.Linkedin,
		AcquisitionChannel: c.AcquisitionChannel,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *ContactMapper) ToEntities(contacts []*model.Contact) []*entity.Contact {
	entities := make([]*entity.Contact, len(contacts))
	for i, c := range contacts {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
