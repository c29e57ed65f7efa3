package database

import (
	"log"

	"admin-app/models"

	"gorm.io/gorm"
)

// SeedDefaultTenant makes sure the master database knows at least one tenant,
// pointing at the configured default tenant database.
func SeedDefaultTenant(db *gorm.DB, dbName string) {
	tenant := models.Tenant{
		Name:   dbName,
		DbName: dbName,
		Status: "active",
	}

	var existing models.Tenant
	err := db.Where("db_name = ?", tenant.DbName).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&tenant).Error; err != nil {
				log.Fatalf("Failed to create default tenant: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

// SeedMasterData provisions the master database objects the worker needs to
// start: the default tenant row and its physical database.
func SeedMasterData(db *gorm.DB, defaultTenantDB string) {
	if defaultTenantDB == "" {
		return
	}
	EnsureDatabaseExists(defaultTenantDB)
	SeedDefaultTenant(db, defaultTenantDB)
}
