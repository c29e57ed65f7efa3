package migration

import (
	"fmt"

	"admin-app/models"

	"gorm.io/gorm"
)

// moduleModels maps each registry module to the tenant-schema models it owns.
// Activation migrates these into the tenant database; rolling an activation
// back drops them again.
var moduleModels = map[string][]interface{}{
	"users": {
		&models.User{},
		&models.Role{},
		&models.Permission{},
	},
	"customers": {
		&models.Customer{},
	},
	"contracts": {
		&models.Contract{},
	},
	"menus": {
		&models.MenuNode{},
	},
}

// TenantDBResolver returns a connection scoped to the tenant's database.
type TenantDBResolver interface {
	TenantDB(tenantID uint) (*gorm.DB, error)
}

// ModuleRunner runs and rolls back per-module schema migrations against
// tenant databases. It is the forward/compensating pair for the saga's
// migration step.
type ModuleRunner struct {
	tenants TenantDBResolver
}

func NewModuleRunner(tenants TenantDBResolver) *ModuleRunner {
	return &ModuleRunner{tenants: tenants}
}

// Run migrates the module's tables into the tenant database and returns the
// table names it touched.
func (r *ModuleRunner) Run(tenantID uint, moduleName string) ([]string, error) {
	entities, ok := moduleModels[moduleName]
	if !ok {
		// Modules without their own schema are valid, activation just has
		// nothing to migrate.
		return nil, nil
	}

	db, err := r.tenants.TenantDB(tenantID)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(entities...); err != nil {
		return nil, fmt.Errorf("migration of module %q failed: %w", moduleName, err)
	}

	return tableNames(db, entities), nil
}

// Rollback drops the module's tables from the tenant database.
func (r *ModuleRunner) Rollback(tenantID uint, moduleName string) error {
	entities, ok := moduleModels[moduleName]
	if !ok {
		return nil
	}

	db, err := r.tenants.TenantDB(tenantID)
	if err != nil {
		return err
	}

	for i := len(entities) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(entities[i]); err != nil {
			return fmt.Errorf("rollback of module %q failed: %w", moduleName, err)
		}
	}
	return nil
}

func tableNames(db *gorm.DB, entities []interface{}) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(e); err == nil {
			names = append(names, stmt.Schema.Table)
		}
	}
	return names
}
