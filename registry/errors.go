package registry

import (
	"fmt"
	"strings"
)

// ModuleNotFoundError means the requested module is absent from the registry.
type ModuleNotFoundError struct {
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %q not found in registry", e.Module)
}

// MissingDependencyError means a declared dependency is absent from the registry.
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("module %q depends on %q which is not in the registry", e.Module, e.Dependency)
}

// CircularDependencyError carries the dependency path that closed the cycle.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular module dependency: %s", strings.Join(e.Path, " -> "))
}
