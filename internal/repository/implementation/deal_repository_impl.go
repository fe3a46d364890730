package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/mapper"
	"ai-crm-be/internal/model"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DealRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DealMapper
}

func NewDealRepository(db *gorm.DB) contract.DealRepository {
	return &DealRepositoryImpl{
		db:     db,
		mapper: mapper.NewDealMapper(),
	}
}

func (r *DealRepositoryImpl) Create(ctx context.Context, deal *entity.Deal) error {
	m := r.mapper.ToModel(deal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*deal = *r.mapper.ToEntity(m)
	return nil
}

func (r *DealRepositoryImpl) Update(ctx context.Context, deal *entity.Deal) error {
	m := r.mapper.ToModel(deal)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*deal = *r.mapper.ToEntity(m)
	return nil
}

func (r *DealRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Deal{}, id).Error
}

func (r *DealRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deal, error) {
	var m model.Deal
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DealRepositoryImpl) FindOneWithContact(ctx context.Context, specs ...specification.Specification) (*contract.DealWithContact, error) {
	var m model.Deal
	query := applySpecifications(r.db.WithContext(ctx).Preload("Contact"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	deal, contact := r.mapper.ToEntityWithContact(&m)
	return &contract.DealWithContact{Deal: deal, Contact: contact}, nil
}

func (r *DealRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deal, error) {
	var models []*model.Deal
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DealRepositoryImpl) FindAllWithContact(ctx context.Context, specs ...specification.Specification) ([]*contract.DealWithContact, error) {
	var models []*model.Deal
	query := applySpecifications(r.db.WithContext(ctx).Preload("Contact"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*contract.DealWithContact, len(models))
	for i, m := range models {
		deal, contact := r.mapper.ToEntityWithContact(m)
		result[i] = &contract.DealWithContact{Deal: deal, Contact: contact}
	}
	return result, nil
}

func (r *DealRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Deal{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DealRepositoryImpl) UpdateStage(ctx context.Context, id uuid.UUID, stage entity.DealStage, sortOrder *int) error {
	updates := map[string]interface{}{
		"stage": string(stage),
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}
	return r.partialUpdate(ctx, id, updates)
}

func (r *DealRepositoryImpl) UpdateNotes(ctx context.Context, id uuid.UUID, notes []entity.DealNote) error {
	raw, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return r.partialUpdate(ctx, id, map[string]interface{}{"notes": raw})
}

func (r *DealRepositoryImpl) UpdateAttachments(ctx context.Context, id uuid.UUID, attachments []entity.DealAttachment) error {
	raw, err := json.Marshal(attachments)
	if err != nil {
		return err
	}
	return r.partialUpdate(ctx, id, map[string]interface{}{"attachments": raw})
}

func (r *DealRepositoryImpl) UpdateSignal(ctx context.Context, id uuid.UUID, update contract.SignalUpdate) error {
	return r.partialUpdate(ctx, id, map[string]interface{}{
		"signal":           string(update.Signal),
		"signal_rationale": update.SignalRationale,
		"updated_at":       update.UpdatedAt,
	})
}

// partialUpdate applies a keyed update and distinguishes a missing row from a
// storage failure.
func (r *DealRepositoryImpl) partialUpdate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Deal{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
