package service

import (
	"context"
	"strconv"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const maxTargetRepr = 255

// AuditService appends and lists audit entries.
type AuditService struct {
	repo model.AuditRepository
}

func NewAuditService(repo model.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record writes one entry for a mutation that has already been applied.
// A failed write is logged and otherwise ignored.
func (s *AuditService) Record(ctx context.Context, viewer access.Viewer, action, targetType string, target db.Record, changes map[string]interface{}) {
	if s == nil || s.repo == nil || target == nil {
		return
	}
	repr := target.Label()
	if len(repr) > maxTargetRepr {
		repr = repr[:maxTargetRepr]
	}
	entry := &db.AuditLog{
		ActorID:    viewer.ActorID(),
		Action:     action,
		TargetType: targetType,
		TargetID:   strconv.FormatUint(uint64(target.RecordID()), 10),
		TargetRepr: repr,
		SourceIP:   viewer.IP,
	}
	if len(changes) > 0 {
		entry.Changes = datatypes.JSONMap(changes)
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"target_type": targetType,
			"target_id":   entry.TargetID,
			"actor_id":    viewer.AccountID,
		}).Error("failed to write audit log")
	}
}

// List returns audit entries newest first. Staff only.
func (s *AuditService) List(ctx context.Context, viewer access.Viewer, query *dto.AuditQuery) ([]db.AuditLog, *common.Meta, error) {
	if !viewer.IsStaff() {
		return nil, nil, ErrForbidden
	}
	entries, meta, err := s.repo.ListAuditLogs(ctx, query)
	if err != nil {
		return nil, nil, storageError(err)
	}
	return entries, meta, nil
}
