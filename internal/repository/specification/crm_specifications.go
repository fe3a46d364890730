package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByContactID scopes deals or activities to one contact.
type ByContactID struct {
	ContactID uuid.UUID
}

func (s ByContactID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact_id = ?", s.ContactID)
}

// ByDealID scopes activities to one deal.
type ByDealID struct {
	DealID uuid.UUID
}

func (s ByDealID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deal_id = ?", s.DealID)
}

// ByStage filters deals by pipeline stage.
type ByStage struct {
	Stage string
}

func (s ByStage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stage = ?", s.Stage)
}

// ContactSearch matches name, company or email, case-insensitively.
type ContactSearch struct {
	Query string
}

func (s ContactSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"first_name ILIKE ? OR last_name ILIKE ? OR company ILIKE ? OR email ILIKE ?",
		pattern, pattern, pattern, pattern,
	)
}

// WithContact preloads the deal's contact row.
type WithContact struct{}

func (s WithContact) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Contact")
}

// ByEmail filters users by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByUserID filters login tokens by owner.
type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
