package services

import "time"

// ActivationReport is returned to the caller after a successful activation.
type ActivationReport struct {
	Module      ModuleRef         `json:"module"`
	Activation  ActivationOutcome `json:"activation"`
	Details     ActivationDetails `json:"details"`
	InstalledAt time.Time         `json:"installed_at"`
}

type ModuleRef struct {
	Name     string `json:"name"`
	TenantID uint   `json:"tenant_id"`
}

type ActivationOutcome struct {
	Success        bool     `json:"success"`
	CompletedSteps []string `json:"completed_steps"`
	DurationMs     int64    `json:"duration_ms"`
}

type ActivationDetails struct {
	MigrationsRun   []string `json:"migrations_run"`
	FilesCreated    []string `json:"files_created"`
	ConfigGenerated bool     `json:"config_generated"`
}

// BatchItem is one module in a batch request.
type BatchItem struct {
	ModuleName string                 `json:"module_name"`
	Config     map[string]interface{} `json:"config"`
}

// BatchEntry reports one module's outcome inside a batch. Each module's saga
// is independent: one failure neither aborts the batch nor rolls back the
// earlier successes.
type BatchEntry struct {
	ModuleName string            `json:"module_name"`
	Success    bool              `json:"success"`
	Report     *ActivationReport `json:"report,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type BatchResult struct {
	TenantID uint         `json:"tenant_id"`
	Entries  []BatchEntry `json:"entries"`
}

// Succeeded returns the module names that completed.
func (b *BatchResult) Succeeded() []string {
	var out []string
	for _, e := range b.Entries {
		if e.Success {
			out = append(out, e.ModuleName)
		}
	}
	return out
}

// Failed returns the module names that did not complete.
func (b *BatchResult) Failed() []string {
	var out []string
	for _, e := range b.Entries {
		if !e.Success {
			out = append(out, e.ModuleName)
		}
	}
	return out
}
