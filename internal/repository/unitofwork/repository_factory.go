package unitofwork

import "context"

// RepositoryFactory hands out units of work. Services take the factory, not
// *gorm.DB, so tests can swap the whole persistence layer behind it.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
