package unitofwork

import (
	"context"

	"ai-crm-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContactRepository() contract.ContactRepository
	DealRepository() contract.DealRepository
	ActivityRepository() contract.ActivityRepository
	UserRepository() contract.UserRepository
}
