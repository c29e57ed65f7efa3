package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"admin-app/config"
	"admin-app/database"
	"admin-app/events"
	"admin-app/idgen"
	"admin-app/migration"
	"admin-app/models"
	"admin-app/registry"
	"admin-app/repositories"
	seed "admin-app/seeder"
	"admin-app/services"
)

// The activation worker: consumes the activation request queue the
// superadmin API writes into the master database and executes the module
// sagas one request at a time.
func main() {
	config.LoadConfig()

	database.EnsureDatabaseExists(config.DBMaster)

	masterDB, err := database.OpenMasterDB()
	if err != nil {
		log.Fatalf("Failed to connect to master database: %v", err)
	}

	if err := migration.Migrate(masterDB); err != nil {
		log.Fatalf("Failed to migrate master database: %v", err)
	}

	idgen.Init()

	database.SeedMasterData(masterDB, config.DBDefaultTenant)

	reg, err := registry.Load(config.ModuleRegistryPath)
	if err != nil {
		log.Fatalf("Failed to load module registry: %v", err)
	}

	directory := database.NewDirectory(masterDB)
	installations := repositories.NewInstallationRepository(masterDB)
	requests := repositories.NewRequestRepository(masterDB)
	runner := migration.NewModuleRunner(directory)
	configs := services.NewFileConfigStore(config.TenantConfigDir)
	dispatcher := events.NewDispatcher(
		events.NewAuditSink(masterDB),
		events.NewMailSink(),
	)

	moduleService := services.NewModuleService(reg, installations, runner, configs, dispatcher)

	seedDefaultMenus(directory, installations)

	fmt.Println("Activation worker running, polling every", config.WorkerPollSeconds, "seconds")

	ticker := time.NewTicker(time.Duration(config.WorkerPollSeconds) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		processRequests(requests, moduleService)
	}
}

// seedDefaultMenus makes sure every tenant with the menus module active has
// the default menu tree. Idempotent, runs once at startup.
func seedDefaultMenus(directory *database.Directory, installations *repositories.InstallationRepository) {
	tenants, err := directory.ListTenants()
	if err != nil {
		log.Println("Failed to list tenants for menu seeding:", err)
		return
	}

	for _, tenant := range tenants {
		active, err := installations.IsActive(tenant.ID, "menus")
		if err != nil || !active {
			continue
		}
		tenantDB, err := directory.TenantDB(tenant.ID)
		if err != nil {
			log.Println("Failed to open tenant database for menu seeding:", err)
			continue
		}
		seed.SeedMenus(repositories.NewMenuRepository(tenantDB, config.MaxMenuLevel))
	}
}

// processRequests drains the pending queue, one saga per request.
func processRequests(requests *repositories.RequestRepository, moduleService *services.ModuleService) {
	for {
		req, err := requests.NextPending()
		if err != nil {
			log.Println("Failed to fetch pending request:", err)
			return
		}
		if req == nil {
			return
		}

		log.Printf("Processing request %d: %s %s for tenant %d", int64(req.ID), req.Action, req.ModuleName, req.TenantID)

		switch req.Action {
		case models.RequestActionActivate:
			var cfg map[string]interface{}
			if req.Config != "" {
				if err := json.Unmarshal([]byte(req.Config), &cfg); err != nil {
					requests.Fail(req, "", fmt.Sprintf("invalid config payload: %v", err))
					continue
				}
			}
			report, err := moduleService.Activate(context.Background(), req.TenantID, req.ModuleName, cfg, req.RequestedBy)
			if err != nil {
				requests.Fail(req, "", err.Error())
				continue
			}
			reportJSON, _ := json.Marshal(report)
			requests.Complete(req, string(reportJSON))

		case models.RequestActionDeactivate:
			if err := moduleService.Deactivate(context.Background(), req.TenantID, req.ModuleName, req.RequestedBy); err != nil {
				requests.Fail(req, "", err.Error())
				continue
			}
			requests.Complete(req, "")

		default:
			requests.Fail(req, "", fmt.Sprintf("unknown action %q", req.Action))
		}
	}
}
