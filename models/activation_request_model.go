package models

import (
	"time"

	"admin-app/types"
)

const (
	RequestActionActivate   = "ACTIVATE"
	RequestActionDeactivate = "DEACTIVATE"

	RequestStatusPending = "PENDING"
	RequestStatusRunning = "RUNNING"
	RequestStatusDone    = "DONE"
	RequestStatusFailed  = "FAILED"
)

// ActivationRequest is the queue row the superadmin API writes and the
// activation worker consumes.
type ActivationRequest struct {
	ID          types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TenantID    uint              `json:"tenant_id" gorm:"index"`
	ModuleName  string            `json:"module_name" gorm:"size:100"`
	Action      string            `json:"action"`
	Config      string            `json:"config" gorm:"type:text"`
	Status      string            `json:"status" gorm:"index;default:PENDING"`
	Report      string            `json:"report" gorm:"type:text"`
	Error       string            `json:"error" gorm:"type:text"`
	RequestedBy int               `json:"requested_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
