package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditCreate  = "create"
	AuditUpdate  = "update"
	AuditDelete  = "delete"
	AuditApprove = "approve"
	AuditReject  = "reject"
	AuditVerify  = "verify"
)

var AuditActions = []string{AuditCreate, AuditUpdate, AuditDelete, AuditApprove, AuditReject, AuditVerify}

// AuditLog is an append-only record of an administrative mutation. The
// actor reference is cleared when the acting account is deleted.
type AuditLog struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	Timestamp  time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"timestamp"`
	ActorID    *uint             `gorm:"column:actor_id;index" json:"actor_id"`
	Actor      *Account          `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"actor,omitempty"`
	Action     string            `gorm:"column:action;type:varchar(20);index;not null" json:"action"`
	TargetType string            `gorm:"column:target_type;type:varchar(100);index;not null" json:"target_type"`
	TargetID   string            `gorm:"column:target_id;type:varchar(100)" json:"target_id"`
	TargetRepr string            `gorm:"column:target_repr;type:varchar(255)" json:"target_repr"`
	Changes    datatypes.JSONMap `gorm:"column:changes" json:"changes"`
	SourceIP   string            `gorm:"column:source_ip;type:varchar(45)" json:"source_ip"`
}

func (AuditLog) TableName() string { return "audit_logs" }
