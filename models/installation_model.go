package models

import (
	"time"

	"gorm.io/gorm"
)

// TenantModuleInstallation records the activation state of one module for one
// tenant. Rows are never physically deleted, deactivation only flips IsActive.
type TenantModuleInstallation struct {
	gorm.Model
	TenantID         uint       `json:"tenant_id" gorm:"uniqueIndex:idx_tenant_module"`
	ModuleName       string     `json:"module_name" gorm:"uniqueIndex:idx_tenant_module;size:100"`
	IsActive         bool       `json:"is_active"`
	InstalledAt      *time.Time `json:"installed_at"`
	UninstalledAt    *time.Time `json:"uninstalled_at"`
	Config           string     `json:"config" gorm:"type:text"`
	InstalledVersion string     `json:"installed_version"`
	CreatedBy        int
	UpdatedBy        int
}
