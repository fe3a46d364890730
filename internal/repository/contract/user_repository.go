package contract

import (
	"context"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	CreateToken(ctx context.Context, token *entity.LoginToken) error
	FindTokens(ctx context.Context, specs ...specification.Specification) ([]*entity.LoginToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}
