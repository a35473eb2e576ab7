package sql

import (
	"context"
	"fmt"
	"strings"

	"agcbo/internal/entity/db"

	"gorm.io/gorm"
)

func orderedWards(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order ASC, name ASC")
}

// ListConstituencies returns every constituency with its wards.
func (r *GormRepository) ListConstituencies(ctx context.Context) ([]db.Constituency, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var items []db.Constituency
	if err := r.db.WithContext(ctx).Preload("Wards", orderedWards).Order("sort_order ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListWards returns the wards of one constituency.
func (r *GormRepository) ListWards(ctx context.Context, constituencyID uint) ([]db.Ward, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var wards []db.Ward
	if err := orderedWards(r.db.WithContext(ctx).Where("constituency_id = ?", constituencyID)).Find(&wards).Error; err != nil {
		return nil, err
	}
	return wards, nil
}

// GetWard loads a ward with its constituency.
func (r *GormRepository) GetWard(ctx context.Context, id uint) (*db.Ward, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var ward db.Ward
	if err := r.db.WithContext(ctx).Preload("Constituency").First(&ward, id).Error; err != nil {
		return nil, err
	}
	return &ward, nil
}

// EnsureConstituency returns the named constituency, creating it if needed.
func (r *GormRepository) EnsureConstituency(ctx context.Context, name string, order int) (*db.Constituency, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("constituency name is empty")
	}
	var item db.Constituency
	if err := r.db.WithContext(ctx).Where(db.Constituency{Name: trimmed}).Attrs(db.Constituency{Order: order}).FirstOrCreate(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// EnsureWard returns the named ward of a constituency, creating it if needed.
func (r *GormRepository) EnsureWard(ctx context.Context, constituencyID uint, name string, order int) (*db.Ward, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if constituencyID == 0 || trimmed == "" {
		return nil, fmt.Errorf("invalid ward")
	}
	var ward db.Ward
	if err := r.db.WithContext(ctx).
		Where(db.Ward{ConstituencyID: constituencyID, Name: trimmed}).
		Attrs(db.Ward{Order: order}).
		FirstOrCreate(&ward).Error; err != nil {
		return nil, err
	}
	return &ward, nil
}
