package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

type ByProviderEventId struct {
	ProviderEventId string
}

func (s ByProviderEventId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_event_id = ?", s.ProviderEventId)
}

// StatusIn restricts rows to the given status values; empty means no filter.
type StatusIn struct {
	Statuses []string
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Statuses) == 0 {
		return db
	}
	return db.Where("status IN ?", s.Statuses)
}

// StartDateEquals compares against the stored textual timestamp.
type StartDateEquals struct {
	StartDate string
}

func (s StartDateEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_date = ?", s.StartDate)
}
