package registry

import (
	"golang.org/x/exp/slices"
)

// Resolve returns the modules that must be active before the named module,
// dependency-first, ending with the module itself.
//
// Ordering is deterministic: when several dependencies are ready at the same
// time they are visited by declared priority, then by name, so repeated calls
// over the same registry always produce the same list.
func (r *Registry) Resolve(name string) ([]string, error) {
	if _, ok := r.modules[name]; !ok {
		return nil, &ModuleNotFoundError{Module: name}
	}

	var (
		order  []string
		done   = map[string]bool{}
		onPath = map[string]bool{}
		path   []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if onPath[name] {
			return &CircularDependencyError{Path: append(slices.Clone(path), name)}
		}

		m := r.modules[name]
		onPath[name] = true
		path = append(path, name)

		deps := slices.Clone(m.Dependencies)
		slices.SortFunc(deps, func(a, b string) int {
			pa, pb := r.modules[a].Priority, r.modules[b].Priority
			if pa != pb {
				return pa - pb
			}
			if a < b {
				return -1
			}
			if a > b {
				return 1
			}
			return 0
		})

		for _, dep := range deps {
			if _, ok := r.modules[dep]; !ok {
				return &MissingDependencyError{Module: name, Dependency: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		onPath[name] = false
		path = path[:len(path)-1]
		done[name] = true
		order = append(order, name)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return order, nil
}
