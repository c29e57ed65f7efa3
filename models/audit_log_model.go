package models

import (
	"time"

	"admin-app/types"
)

// AuditLog keeps one row per module lifecycle event for the superadmin audit
// screen. Detail holds the event payload as JSON.
type AuditLog struct {
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TenantID   uint              `json:"tenant_id" gorm:"index"`
	ModuleName string            `json:"module_name" gorm:"size:100"`
	Event      string            `json:"event"`
	Detail     string            `json:"detail" gorm:"type:text"`
	UserID     int               `json:"user_id"`
	CreatedAt  time.Time         `json:"created_at"`
}
