package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator"
)

// Module is one installable feature unit as declared in the registry file.
// The registry is loaded once at startup and never mutated at runtime.
type Module struct {
	Name         string                 `json:"name" validate:"required,min=2"`
	Dependencies []string               `json:"dependencies"`
	Priority     int                    `json:"priority"`
	IsSystem     bool                   `json:"is_system"`
	Version      string                 `json:"version"`
	Defaults     map[string]interface{} `json:"defaults"`
}

type Registry struct {
	modules map[string]Module
}

var validate = validator.New()

// Load reads the module registry file (Laravel-style modules.json).
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module registry: %w", err)
	}

	var entries []Module
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse module registry: %w", err)
	}

	return New(entries)
}

// New builds a registry from a static module list.
func New(entries []Module) (*Registry, error) {
	r := &Registry{modules: make(map[string]Module, len(entries))}
	for _, m := range entries {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid module entry %q: %w", m.Name, err)
		}
		if _, exists := r.modules[m.Name]; exists {
			return nil, fmt.Errorf("duplicate module entry %q", m.Name)
		}
		r.modules[m.Name] = m
	}
	return r, nil
}

// Get returns the named module.
func (r *Registry) Get(name string) (Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return Module{}, &ModuleNotFoundError{Module: name}
	}
	return m, nil
}

// Has reports whether the module exists in the registry.
func (r *Registry) Has(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// List returns every registered module.
func (r *Registry) List() []Module {
	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	return out
}

// Dependents returns the names of modules that declare the given module as a
// direct dependency.
func (r *Registry) Dependents(name string) []string {
	var out []string
	for _, m := range r.modules {
		for _, dep := range m.Dependencies {
			if dep == name {
				out = append(out, m.Name)
				break
			}
		}
	}
	return out
}
