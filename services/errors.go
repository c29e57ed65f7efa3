package services

import (
	"fmt"
	"strings"

	"admin-app/saga"
)

// Reason codes for activation/deactivation failures.
const (
	ReasonNotActivatable      = "MODULE_NOT_ACTIVATABLE"
	ReasonAlreadyActive       = "ALREADY_ACTIVE"
	ReasonMissingDependencies = "MISSING_DEPENDENCIES"
	ReasonSagaFailed          = "SAGA_FAILED"
	ReasonNotActive           = "NOT_ACTIVE"
	ReasonBlockingDependents  = "BLOCKING_DEPENDENTS"
)

// ActivationError is the typed failure of one activation attempt. For
// ReasonSagaFailed the Saga field carries the step-level outcome, including
// whether compensation completed.
type ActivationError struct {
	Reason     string
	TenantID   uint
	ModuleName string
	Missing    []string
	Saga       *saga.Result
	Cause      error
}

func (e *ActivationError) Error() string {
	switch e.Reason {
	case ReasonNotActivatable:
		return fmt.Sprintf("module %q is a system module and cannot be activated", e.ModuleName)
	case ReasonAlreadyActive:
		return fmt.Sprintf("module %q is already active for tenant %d", e.ModuleName, e.TenantID)
	case ReasonMissingDependencies:
		return fmt.Sprintf("module %q has unsatisfiable dependencies [%s]: %v", e.ModuleName, strings.Join(e.Missing, ", "), e.Cause)
	case ReasonSagaFailed:
		return fmt.Sprintf("activation of module %q for tenant %d failed: %v", e.ModuleName, e.TenantID, e.Cause)
	default:
		return fmt.Sprintf("activation of module %q for tenant %d failed (%s): %v", e.ModuleName, e.TenantID, e.Reason, e.Cause)
	}
}

func (e *ActivationError) Unwrap() error {
	return e.Cause
}

// DeactivationError is the typed failure of one deactivation attempt.
type DeactivationError struct {
	Reason     string
	TenantID   uint
	ModuleName string
	Blocking   []string
}

func (e *DeactivationError) Error() string {
	switch e.Reason {
	case ReasonNotActive:
		return fmt.Sprintf("module %q is not active for tenant %d", e.ModuleName, e.TenantID)
	case ReasonBlockingDependents:
		return fmt.Sprintf("module %q cannot be deactivated for tenant %d: required by active modules [%s]",
			e.ModuleName, e.TenantID, strings.Join(e.Blocking, ", "))
	default:
		return fmt.Sprintf("deactivation of module %q for tenant %d failed (%s)", e.ModuleName, e.TenantID, e.Reason)
	}
}
