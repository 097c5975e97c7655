package toolkit

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is the immutable set of tools, built once at startup
type Registry struct {
	tools map[string]*Declaration
	order []string
}

// NewRegistry validates and indexes decls. Duplicate names and direct tools
// without a handler are configuration errors.
func NewRegistry(decls ...Declaration) (*Registry, error) {
	r := &Registry{tools: make(map[string]*Declaration, len(decls))}

	var errs []error
	for i := range decls {
		d := decls[i]
		switch {
		case d.Name == "":
			errs = append(errs, fmt.Errorf("tool #%d has no name", i))
			continue
		case r.tools[d.Name] != nil:
			errs = append(errs, fmt.Errorf("tool %q already registered", d.Name))
			continue
		case d.Kind == KindDirect && d.Handler == nil:
			errs = append(errs, fmt.Errorf("tool %q has no handler", d.Name))
			continue
		}

		r.tools[d.Name] = &d
		r.order = append(r.order, d.Name)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Lookup returns the declaration called name
func (r *Registry) Lookup(name string) (*Declaration, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Declarations lists tools in registration order
func (r *Registry) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names lists tool names sorted
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}
