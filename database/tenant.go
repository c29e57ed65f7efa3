package database

import (
	"fmt"
	"strings"

	"admin-app/models"

	"gorm.io/gorm"
)

// Directory looks tenants up in the master database and hands out scoped
// connections to their databases. It is the tenant directory the activation
// saga targets migrations through.
type Directory struct {
	master *gorm.DB
}

func NewDirectory(master *gorm.DB) *Directory {
	return &Directory{master: master}
}

// GetTenant returns the tenant row for the given id.
func (d *Directory) GetTenant(tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := d.master.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("tenant %d not found", tenantID)
		}
		return nil, err
	}
	return &tenant, nil
}

// TenantDB returns the pooled connection to the tenant's own database.
func (d *Directory) TenantDB(tenantID uint) (*gorm.DB, error) {
	tenant, err := d.GetTenant(tenantID)
	if err != nil {
		return nil, err
	}
	return GetDBConnection(tenant.DbName)
}

// CreateTenant provisions a new tenant: validates the database name, creates
// the physical database and stores the master row.
func (d *Directory) CreateTenant(name, dbName string, createdBy int) (*models.Tenant, error) {
	dbName = strings.TrimSpace(dbName)
	if dbName == "" || !isValidDBName(dbName) {
		return nil, fmt.Errorf("invalid database name %q", dbName)
	}

	exists, err := checkDatabaseExists(d.master, dbName)
	if err != nil {
		return nil, fmt.Errorf("error checking database existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("database %q already exists", dbName)
	}

	EnsureDatabaseExists(dbName)

	tenant := models.Tenant{
		Name:      name,
		DbName:    dbName,
		Status:    "active",
		CreatedBy: createdBy,
	}
	if err := d.master.Create(&tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}
	return &tenant, nil
}

// ListTenants returns all tenants in the master database.
func (d *Directory) ListTenants() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := d.master.Order("id asc").Find(&tenants).Error
	return tenants, err
}
