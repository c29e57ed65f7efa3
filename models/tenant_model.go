package models

import "gorm.io/gorm"

// Tenant is a master-database row pointing at an isolated tenant database.
type Tenant struct {
	gorm.Model
	Name      string `json:"name"`
	DbName    string `json:"db_name" gorm:"uniqueIndex"`
	Status    string `json:"status" gorm:"default:active"`
	CreatedBy int
	UpdatedBy int
}
