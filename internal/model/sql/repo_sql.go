package sql

import (
	"context"
	"fmt"

	"agcbo/internal/entity/common"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Ping checks that the database answers.
func (r *GormRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (r *GormRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// calculatePagination calculates pagination metrics
func calculatePagination(totalCount int64, page, pageSize int) *common.Meta {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	return &common.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// paginate applies offset and limit from params after normalising them.
func paginate(query *gorm.DB, params *common.BaseParams) (*gorm.DB, int, int) {
	params.Normalize()
	return query.Offset(params.Offset()).Limit(int(params.PageSize)), int(params.Page), int(params.PageSize)
}
