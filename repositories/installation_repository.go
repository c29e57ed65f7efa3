package repositories

import (
	"errors"
	"time"

	"admin-app/models"

	"gorm.io/gorm"
)

// InstallationRepository persists per-tenant module activation state in the
// master database. Rows are history: deactivation flips IsActive instead of
// deleting.
type InstallationRepository struct {
	DB *gorm.DB
}

func NewInstallationRepository(DB *gorm.DB) *InstallationRepository {
	return &InstallationRepository{DB: DB}
}

// Get returns the installation row, or nil when the module was never
// installed for the tenant.
func (r *InstallationRepository) Get(tenantID uint, moduleName string) (*models.TenantModuleInstallation, error) {
	var row models.TenantModuleInstallation
	err := r.DB.Where("tenant_id = ? AND module_name = ?", tenantID, moduleName).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// IsActive reports whether the module is currently active for the tenant.
func (r *InstallationRepository) IsActive(tenantID uint, moduleName string) (bool, error) {
	row, err := r.Get(tenantID, moduleName)
	if err != nil {
		return false, err
	}
	return row != nil && row.IsActive, nil
}

// ActiveModules returns the names of the tenant's active modules.
func (r *InstallationRepository) ActiveModules(tenantID uint) ([]string, error) {
	var names []string
	err := r.DB.Model(&models.TenantModuleInstallation{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("module_name asc").
		Pluck("module_name", &names).Error
	return names, err
}

// Activate creates or reactivates the installation row. The unique index on
// (tenant_id, module_name) keeps concurrent first activations from creating
// two rows.
func (r *InstallationRepository) Activate(tenantID uint, moduleName, configJSON, version string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var row models.TenantModuleInstallation
		err := tx.Where("tenant_id = ? AND module_name = ?", tenantID, moduleName).First(&row).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = models.TenantModuleInstallation{
				TenantID:   tenantID,
				ModuleName: moduleName,
			}
		}

		row.IsActive = true
		row.InstalledAt = &now
		row.UninstalledAt = nil
		row.Config = configJSON
		row.InstalledVersion = version
		return tx.Save(&row).Error
	})
}

// Deactivate marks the installation inactive and stamps uninstalled_at.
func (r *InstallationRepository) Deactivate(tenantID uint, moduleName string) error {
	now := time.Now()
	return r.DB.Model(&models.TenantModuleInstallation{}).
		Where("tenant_id = ? AND module_name = ?", tenantID, moduleName).
		Updates(map[string]interface{}{
			"is_active":      false,
			"uninstalled_at": now,
		}).Error
}

// ListByTenant returns every installation row for the tenant, history
// included.
func (r *InstallationRepository) ListByTenant(tenantID uint) ([]models.TenantModuleInstallation, error) {
	var rows []models.TenantModuleInstallation
	err := r.DB.Where("tenant_id = ?", tenantID).Order("module_name asc").Find(&rows).Error
	return rows, err
}
