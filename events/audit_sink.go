package events

import (
	"encoding/json"
	"log"

	"admin-app/idgen"
	"admin-app/models"
	"admin-app/types"

	"gorm.io/gorm"
)

// AuditSink writes one audit row per module lifecycle event to the master
// database.
type AuditSink struct {
	DB *gorm.DB
}

func NewAuditSink(db *gorm.DB) *AuditSink {
	return &AuditSink{DB: db}
}

func (s *AuditSink) Handle(event interface{}) {
	entry := models.AuditLog{
		ID: types.SnowflakeID(idgen.GenerateID()),
	}

	switch e := event.(type) {
	case ModuleActivated:
		entry.TenantID = e.TenantID
		entry.ModuleName = e.ModuleName
		entry.Event = "module.activated"
	case ModuleDeactivated:
		entry.TenantID = e.TenantID
		entry.ModuleName = e.ModuleName
		entry.Event = "module.deactivated"
		entry.UserID = e.UserID
	case ModuleActivationFailed:
		entry.TenantID = e.TenantID
		entry.ModuleName = e.ModuleName
		entry.Event = "module.activation_failed"
		entry.UserID = e.UserID
	default:
		return
	}

	if detail, err := json.Marshal(event); err == nil {
		entry.Detail = string(detail)
	}

	if err := s.DB.Create(&entry).Error; err != nil {
		log.Println("Failed to write audit log:", err)
	}
}
