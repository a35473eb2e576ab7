package sql

import (
	"context"
	"fmt"
	"strings"

	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
)

// CreateAuditLog appends an audit entry.
func (r *GormRepository) CreateAuditLog(ctx context.Context, entry *db.AuditLog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if entry == nil {
		return fmt.Errorf("audit entry is nil")
	}
	return r.db.WithContext(ctx).Omit("Actor").Create(entry).Error
}

// ListAuditLogs returns audit entries, newest first.
func (r *GormRepository) ListAuditLogs(ctx context.Context, params *dto.AuditQuery) ([]db.AuditLog, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &dto.AuditQuery{}
	}

	query := r.db.WithContext(ctx).Model(&db.AuditLog{})
	if action := strings.TrimSpace(params.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if target := strings.TrimSpace(params.TargetType); target != "" {
		query = query.Where("target_type = ?", target)
	}
	if params.ActorID > 0 {
		query = query.Where("actor_id = ?", params.ActorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	paged, page, pageSize := paginate(query.Preload("Actor").Order("created_at DESC, id DESC"), &params.BaseParams)
	var entries []db.AuditLog
	if err := paged.Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	return entries, calculatePagination(total, page, pageSize), nil
}
