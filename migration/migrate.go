package migration

import (
	"admin-app/models"

	"gorm.io/gorm"
)

// Migrate creates the master-database schema: tenant directory, installation
// state, activation queue and audit trail.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.TenantModuleInstallation{},
		&models.ActivationRequest{},
		&models.AuditLog{},
	)
}
