package sql

import (
	"context"
	"fmt"

	"agcbo/internal/entity/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Singleton stores T as the single row with id db.SingletonID.
type Singleton[T any, PT interface {
	*T
	db.Record
}] struct {
	db *gorm.DB
}

func NewSingleton[T any, PT interface {
	*T
	db.Record
}](gdb *gorm.DB) *Singleton[T, PT] {
	return &Singleton[T, PT]{db: gdb}
}

// Get returns the row or gorm.ErrRecordNotFound.
func (s *Singleton[T, PT]) Get(ctx context.Context) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var record T
	if err := s.db.WithContext(ctx).Where("id = ?", db.SingletonID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts the row, doing nothing when another writer got there first.
func (s *Singleton[T, PT]) Create(ctx context.Context, record *T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	PT(record).SetRecordID(db.SingletonID)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

// Save overwrites the row; the primary key is always forced.
func (s *Singleton[T, PT]) Save(ctx context.Context, record *T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	PT(record).SetRecordID(db.SingletonID)
	return s.db.WithContext(ctx).Save(record).Error
}
