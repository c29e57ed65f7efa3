package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"admin-app/events"
	"admin-app/registry"
	"admin-app/saga"

	"golang.org/x/exp/slices"
)

// InstallationStore persists per-tenant module activation state.
type InstallationStore interface {
	IsActive(tenantID uint, moduleName string) (bool, error)
	ActiveModules(tenantID uint) ([]string, error)
	Activate(tenantID uint, moduleName, configJSON, version string) error
	Deactivate(tenantID uint, moduleName string) error
}

// Migrator runs and rolls back a module's tenant-scoped schema migrations.
type Migrator interface {
	Run(tenantID uint, moduleName string) ([]string, error)
	Rollback(tenantID uint, moduleName string) error
}

// EventPublisher receives module lifecycle events.
type EventPublisher interface {
	Publish(event interface{})
}

// ModuleService orchestrates module activation and deactivation sagas per
// tenant. Concurrent attempts for the same (tenant, module) pair are
// serialized on a keyed mutex, so a second attempt sees the final state of
// the first instead of interleaving steps with it.
type ModuleService struct {
	registry *registry.Registry
	store    InstallationStore
	migrator Migrator
	configs  ConfigStore
	events   EventPublisher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewModuleService(reg *registry.Registry, store InstallationStore, migrator Migrator, configs ConfigStore, publisher EventPublisher) *ModuleService {
	return &ModuleService{
		registry: reg,
		store:    store,
		migrator: migrator,
		configs:  configs,
		events:   publisher,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *ModuleService) lockFor(tenantID uint, moduleName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%d:%s", tenantID, moduleName)
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// Activate installs and activates the module for the tenant, activating
// missing dependencies first. Registry problems (unknown module, missing or
// circular dependencies) fail before any mutation.
func (s *ModuleService) Activate(ctx context.Context, tenantID uint, moduleName string, cfg map[string]interface{}, userID int) (*ActivationReport, error) {
	m, err := s.registry.Get(moduleName)
	if err != nil {
		return nil, err
	}
	if m.IsSystem {
		return nil, &ActivationError{Reason: ReasonNotActivatable, TenantID: tenantID, ModuleName: moduleName}
	}

	order, err := s.registry.Resolve(moduleName)
	if err != nil {
		return nil, err
	}

	active, err := s.store.IsActive(tenantID, moduleName)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, &ActivationError{Reason: ReasonAlreadyActive, TenantID: tenantID, ModuleName: moduleName}
	}

	// Dependencies first, each with its own independent saga. System modules
	// are part of every tenant and count as always active.
	for _, depName := range order[:len(order)-1] {
		dep, err := s.registry.Get(depName)
		if err != nil {
			return nil, err
		}
		if dep.IsSystem {
			continue
		}

		depActive, err := s.store.IsActive(tenantID, depName)
		if err != nil {
			return nil, err
		}
		if depActive {
			continue
		}

		if _, err := s.activateOne(ctx, tenantID, dep, nil, userID); err != nil {
			return nil, &ActivationError{
				Reason:     ReasonMissingDependencies,
				TenantID:   tenantID,
				ModuleName: moduleName,
				Missing:    []string{depName},
				Cause:      err,
			}
		}
	}

	return s.activateOne(ctx, tenantID, m, cfg, userID)
}

// activateOne runs the three-step activation saga for a single module.
func (s *ModuleService) activateOne(ctx context.Context, tenantID uint, m registry.Module, cfg map[string]interface{}, userID int) (*ActivationReport, error) {
	lock := s.lockFor(tenantID, m.Name)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.store.IsActive(tenantID, m.Name)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, &ActivationError{Reason: ReasonAlreadyActive, TenantID: tenantID, ModuleName: m.Name}
	}

	configJSON, err := mergeConfig(m.Defaults, cfg)
	if err != nil {
		return nil, err
	}

	var (
		migrationsRun []string
		configPath    string
	)

	exec := saga.New(
		saga.Step{
			Name: "run_migrations",
			Run: func(ctx context.Context) error {
				tables, err := s.migrator.Run(tenantID, m.Name)
				if err != nil {
					return err
				}
				migrationsRun = tables
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.migrator.Rollback(tenantID, m.Name)
			},
		},
		saga.Step{
			Name: "materialize_config",
			Run: func(ctx context.Context) error {
				path, err := s.configs.Write(tenantID, m.Name, configJSON)
				if err != nil {
					return err
				}
				configPath = path
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.configs.Remove(tenantID, m.Name)
			},
		},
		saga.Step{
			Name: "write_installation",
			Run: func(ctx context.Context) error {
				return s.store.Activate(tenantID, m.Name, string(configJSON), m.Version)
			},
			Compensate: func(ctx context.Context) error {
				return s.store.Deactivate(tenantID, m.Name)
			},
		},
	)

	start := time.Now()
	res := exec.Run(ctx)
	duration := time.Since(start)

	if res.Failed() {
		s.events.Publish(events.ModuleActivationFailed{
			TenantID:       tenantID,
			ModuleName:     m.Name,
			Error:          res.Err.Error(),
			CompletedSteps: res.CompletedSteps,
			RolledBack:     res.CompensationErr == nil,
			UserID:         userID,
		})
		return nil, &ActivationError{
			Reason:     ReasonSagaFailed,
			TenantID:   tenantID,
			ModuleName: m.Name,
			Saga:       &res,
			Cause:      res.AsError(),
		}
	}

	s.events.Publish(events.ModuleActivated{
		TenantID:   tenantID,
		ModuleName: m.Name,
		Version:    m.Version,
	})

	var files []string
	if configPath != "" {
		files = []string{configPath}
	}
	return &ActivationReport{
		Module: ModuleRef{Name: m.Name, TenantID: tenantID},
		Activation: ActivationOutcome{
			Success:        true,
			CompletedSteps: res.CompletedSteps,
			DurationMs:     duration.Milliseconds(),
		},
		Details: ActivationDetails{
			MigrationsRun:   migrationsRun,
			FilesCreated:    files,
			ConfigGenerated: true,
		},
		InstalledAt: time.Now(),
	}, nil
}

// Deactivate marks the module inactive for the tenant. It refuses outright
// when another active module depends on it: deactivation never cascades.
func (s *ModuleService) Deactivate(ctx context.Context, tenantID uint, moduleName string, userID int) error {
	if _, err := s.registry.Get(moduleName); err != nil {
		return err
	}

	lock := s.lockFor(tenantID, moduleName)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.store.IsActive(tenantID, moduleName)
	if err != nil {
		return err
	}
	if !active {
		return &DeactivationError{Reason: ReasonNotActive, TenantID: tenantID, ModuleName: moduleName}
	}

	var blocking []string
	for _, dependent := range s.registry.Dependents(moduleName) {
		depActive, err := s.store.IsActive(tenantID, dependent)
		if err != nil {
			return err
		}
		if depActive {
			blocking = append(blocking, dependent)
		}
	}
	if len(blocking) > 0 {
		slices.Sort(blocking)
		return &DeactivationError{
			Reason:     ReasonBlockingDependents,
			TenantID:   tenantID,
			ModuleName: moduleName,
			Blocking:   blocking,
		}
	}

	if err := s.store.Deactivate(tenantID, moduleName); err != nil {
		return err
	}

	s.events.Publish(events.ModuleDeactivated{
		TenantID:   tenantID,
		ModuleName: moduleName,
		UserID:     userID,
	})
	return nil
}

// ActivateBatch activates several modules for one tenant. Sagas are
// independent: a failure is recorded in that module's entry and the batch
// continues, leaving earlier successes in place.
func (s *ModuleService) ActivateBatch(ctx context.Context, tenantID uint, items []BatchItem, userID int) *BatchResult {
	result := &BatchResult{TenantID: tenantID}
	for _, item := range items {
		entry := BatchEntry{ModuleName: item.ModuleName}
		report, err := s.Activate(ctx, tenantID, item.ModuleName, item.Config, userID)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Success = true
			entry.Report = report
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// DeactivateBatch deactivates several modules for one tenant, reporting each
// outcome individually.
func (s *ModuleService) DeactivateBatch(ctx context.Context, tenantID uint, moduleNames []string, userID int) *BatchResult {
	result := &BatchResult{TenantID: tenantID}
	for _, name := range moduleNames {
		entry := BatchEntry{ModuleName: name}
		if err := s.Deactivate(ctx, tenantID, name, userID); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Success = true
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// mergeConfig overlays the caller's config on the module's declared defaults.
func mergeConfig(defaults, overrides map[string]interface{}) ([]byte, error) {
	merged := make(map[string]interface{}, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return json.Marshal(merged)
}
