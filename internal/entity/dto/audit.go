package dto

import "agcbo/internal/entity/common"

// AuditQuery filters the audit log listing.
type AuditQuery struct {
	common.BaseParams
	Action     string `json:"action" form:"action" query:"action"`
	TargetType string `json:"target_type" form:"target_type" query:"target_type"`
	ActorID    uint   `json:"actor_id" form:"actor_id" query:"actor_id"`
}
