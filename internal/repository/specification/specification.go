package specification

import "gorm.io/gorm"

// Specification is a composable query fragment. Repositories fold any number
// of them over a base query, so filters, ordering and pagination stay
// declarative at the call site.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
