package mapper

import (
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/model"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}
	return &entity.Activity{
		Id:                a.Id,
		ContactId:         a.ContactId,
		DealId:            a.DealId,
		Type:              entity.ActivityType(a.Type),
		Title:             a.Title,
		Description:       a.Description,
		Transcript:        a.Transcript,
		TranscriptSummary: a.TranscriptSummary,
		CreatedBy:         a.CreatedBy,
		CreatedAt:         a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}
	return &model.Activity{
		Id:                a.Id,
		ContactId:         a.ContactId,
		DealId:            a.DealId,
		Type:              string(a.Type),
		Title:             a.Title,
		Description:       a.Description,
		Transcript:        a.Transcript,
		TranscriptSummary: a.TranscriptSummary,
		CreatedBy:         a.CreatedBy,
		CreatedAt:         a.CreatedAt,
	}
}

func (m *ActivityMapper) ToEntities(activities []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(activities))
	for i, a := range activities {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
