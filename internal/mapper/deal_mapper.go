package mapper

import (
	"encoding/json"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/model"

	"gorm.io/datatypes"
)

type DealMapper struct {
	contactMapper *ContactMapper
}

func NewDealMapper() *DealMapper {
	return &DealMapper{contactMapper: NewContactMapper()}
}

func (m *DealMapper) ToEntity(d *model.Deal) *entity.Deal {
	if d == nil {
		return nil
	}

	var notes []entity.DealNote
	if len(d.Notes) > 0 {
		_ = json.Unmarshal(d.Notes, &notes)
	}

	var attachments []entity.DealAttachment
	if len(d.Attachments) > 0 {
		_ = json.Unmarshal(d.Attachments, &attachments)
	}

	return &entity.Deal{
		Id:              d.Id,
		ContactId:       d.ContactId,
		Name:            d.Name,
		UseCase:         d.UseCase,
		Stage:           entity.DealStage(d.Stage),
		Signal:          entity.DealSignal(d.Signal),
		SignalRationale: d.SignalRationale,
		Description:     d.Description,
		Notes:           notes,
		Attachments:     attachments,
		SortOrder:       d.SortOrder,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToEntityWithContact also maps the joined contact row when it was preloaded.
func (m *DealMapper) ToEntityWithContact(d *model.Deal) (*entity.Deal, *entity.Contact) {
	deal := m.ToEntity(d)
	if d == nil || d.Contact == nil {
		return deal, nil
	}
	return deal, m.contactMapper.ToEntity(d.Contact)
}

func (m *DealMapper) ToModel(d *entity.Deal) *model.Deal {
	if d == nil {
		return nil
	}

	var notes datatypes.JSON
	if d.Notes != nil {
		if raw, err := json.Marshal(d.Notes); err == nil {
			notes = raw
		}
	}

	var attachments datatypes.JSON
	if d.Attachments != nil {
		if raw, err := json.Marshal(d.Attachments); err == nil {
			attachments = raw
		}
	}

	return &model.Deal{
		Id:              d.Id,
		ContactId:       d.ContactId,
		Name:            d.Name,
		UseCase:         d.UseCase,
		Stage:           string(d.Stage),
		Signal:          string(d.Signal),
		SignalRationale: d.SignalRationale,
		Description:     d.Description,
		Notes:           notes,
		Attachments:     attachments,
		SortOrder:       d.SortOrder,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (m *DealMapper) ToEntities(deals []*model.Deal) []*entity.Deal {
	entities := make([]*entity.Deal, len(deals))
	for i, d := range deals {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
