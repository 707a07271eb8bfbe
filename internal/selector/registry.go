package selector

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrUnknownKind    = errors.New("unknown selector kind")
	ErrInvalidKind    = errors.New("invalid selector kind")
	ErrInvalidLocator = errors.New("invalid locator")
	ErrInvalidFilter  = errors.New("invalid filter option")
)

// Registry manages selector kinds by name
type Registry struct {
	kinds sync.Map
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry holding every built-in kind
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, kind := range Builtins() {
		// built-ins are well formed
		_ = r.Register(kind)
	}
	return r
}

// Register adds or replaces a kind
func (r *Registry) Register(kind *Kind) error {
	if kind == nil || kind.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidKind)
	}
	if kind.Expressions == nil {
		return fmt.Errorf("%w: %s has no expression generator", ErrInvalidKind, kind.Name)
	}

	r.kinds.Store(kind.Name, kind)
	return nil
}

// Unregister removes a kind
func (r *Registry) Unregister(name Name) {
	r.kinds.Delete(name)
}

// Resolve retrieves a kind by name
func (r *Registry) Resolve(name Name) (*Kind, error) {
	val, ok := r.kinds.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return val.(*Kind), nil
}

// Names returns the registered kind names, sorted
func (r *Registry) Names() []Name {
	var names []Name
	r.kinds.Range(func(key, _ interface{}) bool {
		names = append(names, key.(Name))
		return true
	})
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Clone returns an independent copy sharing the kind values
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	r.kinds.Range(func(key, value interface{}) bool {
		c.kinds.Store(key, value)
		return true
	})
	return c
}
