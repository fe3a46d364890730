package contract

import (
	"context"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/specification"

	"github.com/google/uuid"
)

// DealWithContact pairs a deal with its joined contact (nil when the deal has
// no contact or the contact row is gone).
type DealWithContact struct {
	Deal    *entity.Deal
	Contact *entity.Contact
}

// SignalUpdate is the atomic partial update the signal analyzer performs.
type SignalUpdate struct {
	Signal          entity.DealSignal
	SignalRationale string
	UpdatedAt       time.Time
}

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	Update(ctx context.Context, deal *entity.Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deal, error)
	FindOneWithContact(ctx context.Context, specs ...specification.Specification) (*DealWithContact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deal, error)
	FindAllWithContact(ctx context.Context, specs ...specification.Specification) ([]*DealWithContact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateStage moves a deal on the board, optionally re-slotting it.
	UpdateStage(ctx context.Context, id uuid.UUID, stage entity.DealStage, sortOrder *int) error

	// UpdateNotes replaces the deal's notes array.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes []entity.DealNote) error

	// UpdateAttachments replaces the deal's attachments metadata array.
	UpdateAttachments(ctx context.Context, id uuid.UUID, attachments []entity.DealAttachment) error

	// UpdateSignal writes signal, rationale and updated_at together, keyed by
	// id. Returns a not-found style error when the id resolves to no row.
	UpdateSignal(ctx context.Context, id uuid.UUID, update SignalUpdate) error
}
