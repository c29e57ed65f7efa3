package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"admin-app/events"
	"admin-app/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorld implements the service's collaborators in memory and keeps one
// ordered call log across all of them, so compensation ordering is checkable.
type fakeWorld struct {
	calls []string

	active  map[string]bool
	rows    map[string]string
	configs map[string]string

	failMigrate  map[string]error
	failConfig   map[string]error
	failActivate map[string]error
	failRollback map[string]error

	published []interface{}
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		active:       map[string]bool{},
		rows:         map[string]string{},
		configs:      map[string]string{},
		failMigrate:  map[string]error{},
		failConfig:   map[string]error{},
		failActivate: map[string]error{},
		failRollback: map[string]error{},
	}
}

func key(tenantID uint, moduleName string) string {
	return fmt.Sprintf("%d:%s", tenantID, moduleName)
}

func (w *fakeWorld) IsActive(tenantID uint, moduleName string) (bool, error) {
	return w.active[key(tenantID, moduleName)], nil
}

func (w *fakeWorld) ActiveModules(tenantID uint) ([]string, error) {
	prefix := fmt.Sprintf("%d:", tenantID)
	var out []string
	for k, on := range w.active {
		if on && strings.HasPrefix(k, prefix) {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (w *fakeWorld) Activate(tenantID uint, moduleName, configJSON, version string) error {
	if err := w.failActivate[moduleName]; err != nil {
		return err
	}
	w.calls = append(w.calls, "store.activate:"+moduleName)
	w.active[key(tenantID, moduleName)] = true
	w.rows[key(tenantID, moduleName)] = configJSON
	return nil
}

func (w *fakeWorld) Deactivate(tenantID uint, moduleName string) error {
	w.calls = append(w.calls, "store.deactivate:"+moduleName)
	w.active[key(tenantID, moduleName)] = false
	return nil
}

func (w *fakeWorld) Run(tenantID uint, moduleName string) ([]string, error) {
	if err := w.failMigrate[moduleName]; err != nil {
		return nil, err
	}
	w.calls = append(w.calls, "migrate.run:"+moduleName)
	return []string{moduleName + "_table"}, nil
}

func (w *fakeWorld) Rollback(tenantID uint, moduleName string) error {
	if err := w.failRollback[moduleName]; err != nil {
		return err
	}
	w.calls = append(w.calls, "migrate.rollback:"+moduleName)
	return nil
}

func (w *fakeWorld) Write(tenantID uint, moduleName string, data []byte) (string, error) {
	if err := w.failConfig[moduleName]; err != nil {
		return "", err
	}
	w.calls = append(w.calls, "config.write:"+moduleName)
	w.configs[key(tenantID, moduleName)] = string(data)
	return "/cfg/" + moduleName + ".json", nil
}

func (w *fakeWorld) Remove(tenantID uint, moduleName string) error {
	w.calls = append(w.calls, "config.remove:"+moduleName)
	delete(w.configs, key(tenantID, moduleName))
	return nil
}

func (w *fakeWorld) Publish(event interface{}) {
	w.published = append(w.published, event)
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New([]registry.Module{
		{Name: "core", IsSystem: true},
		{Name: "users", Dependencies: []string{"core"}, Version: "1.2.0",
			Defaults: map[string]interface{}{"password_min_length": float64(8)}},
		{Name: "customers", Dependencies: []string{"core", "users"}, Version: "1.0.3"},
		{Name: "contracts", Dependencies: []string{"core", "users", "customers"}, Version: "1.0.1"},
	})
	require.NoError(t, err)
	return r
}

func newTestService(t *testing.T) (*ModuleService, *fakeWorld) {
	w := newFakeWorld()
	return NewModuleService(testRegistry(t), w, w, w, w), w
}

func TestActivateRunsStepsInOrder(t *testing.T) {
	svc, w := newTestService(t)

	report, err := svc.Activate(context.Background(), 1, "users", map[string]interface{}{"theme": "dark"}, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"migrate.run:users",
		"config.write:users",
		"store.activate:users",
	}, w.calls)

	assert.Equal(t, "users", report.Module.Name)
	assert.Equal(t, uint(1), report.Module.TenantID)
	assert.True(t, report.Activation.Success)
	assert.Equal(t, []string{"run_migrations", "materialize_config", "write_installation"}, report.Activation.CompletedSteps)
	assert.Equal(t, []string{"users_table"}, report.Details.MigrationsRun)
	assert.Equal(t, []string{"/cfg/users.json"}, report.Details.FilesCreated)
	assert.True(t, report.Details.ConfigGenerated)

	// Defaults merged under the caller's overrides.
	assert.Contains(t, w.configs[key(1, "users")], "password_min_length")
	assert.Contains(t, w.configs[key(1, "users")], "dark")

	require.Len(t, w.published, 1)
	activated, ok := w.published[0].(events.ModuleActivated)
	require.True(t, ok)
	assert.Equal(t, "users", activated.ModuleName)
	assert.Equal(t, "1.2.0", activated.Version)
}

func TestActivateBringsDependenciesFirst(t *testing.T) {
	svc, w := newTestService(t)

	_, err := svc.Activate(context.Background(), 1, "contracts", nil, 0)
	require.NoError(t, err)

	// core is a system module and never gets its own saga.
	assert.Equal(t, []string{
		"migrate.run:users",
		"config.write:users",
		"store.activate:users",
		"migrate.run:customers",
		"config.write:customers",
		"store.activate:customers",
		"migrate.run:contracts",
		"config.write:contracts",
		"store.activate:contracts",
	}, w.calls)
	assert.True(t, w.active[key(1, "users")])
	assert.True(t, w.active[key(1, "customers")])
	assert.True(t, w.active[key(1, "contracts")])
}

func TestActivateAlreadyActiveIsNoMutation(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true

	_, err := svc.Activate(context.Background(), 1, "users", nil, 0)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, ReasonAlreadyActive, actErr.Reason)
	assert.Empty(t, w.calls)
	assert.Empty(t, w.published)
}

func TestActivateSystemModuleRefused(t *testing.T) {
	svc, w := newTestService(t)

	_, err := svc.Activate(context.Background(), 1, "core", nil, 0)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, ReasonNotActivatable, actErr.Reason)
	assert.Empty(t, w.calls)
}

func TestActivateUnknownModule(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Activate(context.Background(), 1, "ghost", nil, 0)

	var notFound *registry.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestActivateFailureCompensatesCompletedSteps(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	boom := errors.New("insert deadlock")
	w.failActivate["customers"] = boom

	_, err := svc.Activate(context.Background(), 1, "customers", nil, 3)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, ReasonSagaFailed, actErr.Reason)
	require.NotNil(t, actErr.Saga)
	assert.Equal(t, "write_installation", actErr.Saga.FailedStep)
	assert.Equal(t, []string{"run_migrations", "materialize_config"}, actErr.Saga.CompletedSteps)
	assert.Equal(t, []string{"materialize_config", "run_migrations"}, actErr.Saga.CompensatedSteps)
	assert.NoError(t, actErr.Saga.CompensationErr)
	assert.ErrorIs(t, err, boom)

	// Forward calls, then compensation in reverse order.
	assert.Equal(t, []string{
		"migrate.run:customers",
		"config.write:customers",
		"config.remove:customers",
		"migrate.rollback:customers",
	}, w.calls)

	// State equals the pre-call state.
	assert.False(t, w.active[key(1, "customers")])
	assert.NotContains(t, w.configs, key(1, "customers"))

	require.Len(t, w.published, 1)
	failed, ok := w.published[0].(events.ModuleActivationFailed)
	require.True(t, ok)
	assert.Equal(t, "customers", failed.ModuleName)
	assert.Equal(t, []string{"run_migrations", "materialize_config"}, failed.CompletedSteps)
	assert.True(t, failed.RolledBack)
	assert.Equal(t, 3, failed.UserID)
}

func TestActivateFirstStepFailureCompensatesNothing(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	w.failMigrate["customers"] = errors.New("ddl failed")

	_, err := svc.Activate(context.Background(), 1, "customers", nil, 0)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Empty(t, actErr.Saga.CompletedSteps)
	assert.Empty(t, actErr.Saga.CompensatedSteps)
	assert.Empty(t, w.calls)
}

func TestActivateIncompleteRollbackSurfaces(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	w.failActivate["customers"] = errors.New("insert failed")
	w.failRollback["customers"] = errors.New("drop table hung")

	_, err := svc.Activate(context.Background(), 1, "customers", nil, 0)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	require.Error(t, actErr.Saga.CompensationErr)
	assert.Equal(t, []string{"materialize_config"}, actErr.Saga.CompensatedSteps)

	failed := w.published[0].(events.ModuleActivationFailed)
	assert.False(t, failed.RolledBack)
}

func TestActivateDependencyFailureReported(t *testing.T) {
	svc, w := newTestService(t)
	w.failMigrate["users"] = errors.New("no ddl rights")

	_, err := svc.Activate(context.Background(), 1, "customers", nil, 0)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, ReasonMissingDependencies, actErr.Reason)
	assert.Equal(t, []string{"users"}, actErr.Missing)
	assert.Equal(t, "customers", actErr.ModuleName)
	// The target module's own saga never started.
	assert.NotContains(t, w.calls, "migrate.run:customers")
}

func TestDeactivate(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true

	err := svc.Deactivate(context.Background(), 1, "users", 9)
	require.NoError(t, err)

	assert.False(t, w.active[key(1, "users")])
	require.Len(t, w.published, 1)
	deactivated := w.published[0].(events.ModuleDeactivated)
	assert.Equal(t, "users", deactivated.ModuleName)
	assert.Equal(t, 9, deactivated.UserID)
}

func TestDeactivateNotActive(t *testing.T) {
	svc, w := newTestService(t)

	err := svc.Deactivate(context.Background(), 1, "users", 0)

	var deErr *DeactivationError
	require.ErrorAs(t, err, &deErr)
	assert.Equal(t, ReasonNotActive, deErr.Reason)
	assert.Empty(t, w.calls)
}

func TestDeactivateBlockedByDependents(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	w.active[key(1, "customers")] = true
	w.active[key(1, "contracts")] = true

	err := svc.Deactivate(context.Background(), 1, "users", 0)

	var deErr *DeactivationError
	require.ErrorAs(t, err, &deErr)
	assert.Equal(t, ReasonBlockingDependents, deErr.Reason)
	assert.Equal(t, []string{"contracts", "customers"}, deErr.Blocking)
	// users stays active.
	assert.True(t, w.active[key(1, "users")])
	assert.Empty(t, w.published)
}

func TestActivateBatchIsIndependentPerModule(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	w.failMigrate["customers"] = errors.New("ddl failed")

	result := svc.ActivateBatch(context.Background(), 1, []BatchItem{
		{ModuleName: "customers"},
		{ModuleName: "ghost"},
		{ModuleName: "users"},
	}, 0)

	require.Len(t, result.Entries, 3)
	assert.False(t, result.Entries[0].Success)
	assert.Contains(t, result.Entries[0].Error, "ddl failed")
	assert.False(t, result.Entries[1].Success)
	assert.False(t, result.Entries[2].Success)
	assert.Contains(t, result.Entries[2].Error, "already active")

	assert.Empty(t, result.Succeeded())
	assert.Equal(t, []string{"customers", "ghost", "users"}, result.Failed())
}

func TestActivateBatchKeepsEarlierSuccesses(t *testing.T) {
	svc, w := newTestService(t)
	w.failMigrate["contracts"] = errors.New("ddl failed")

	result := svc.ActivateBatch(context.Background(), 1, []BatchItem{
		{ModuleName: "users"},
		{ModuleName: "contracts"},
	}, 0)

	require.Len(t, result.Entries, 2)
	assert.True(t, result.Entries[0].Success)
	assert.NotNil(t, result.Entries[0].Report)
	assert.False(t, result.Entries[1].Success)

	// The earlier success is not rolled back by the later failure.
	assert.True(t, w.active[key(1, "users")])
	// contracts pulled customers in as a dependency before failing itself.
	assert.True(t, w.active[key(1, "customers")])
	assert.False(t, w.active[key(1, "contracts")])
}

func TestDeactivateBatch(t *testing.T) {
	svc, w := newTestService(t)
	w.active[key(1, "users")] = true
	w.active[key(1, "customers")] = true

	result := svc.DeactivateBatch(context.Background(), 1, []string{"customers", "users"}, 0)

	require.Len(t, result.Entries, 2)
	assert.True(t, result.Entries[0].Success)
	assert.True(t, result.Entries[1].Success)
	assert.False(t, w.active[key(1, "users")])
	assert.False(t, w.active[key(1, "customers")])
}
