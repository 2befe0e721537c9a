package calculator

import "fmt"

// Interface describes one calculator's request and response schemas.
type Interface struct {
	Request  map[string]any `json:"request"`
	Response map[string]any `json:"response"`
}

// Registry holds the closed set of calculators, indexed by name. It is
// populated once at process start; afterwards only read operations are used,
// so lookups need no locking.
type Registry struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Names are globally unique within a registry.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("calculator: nil descriptor")
	}
	if _, ok := r.byName[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCalculator, d.Name)
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d)
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCalculator, name)
	}
	return d, nil
}

// DescribeAll returns the request/response schemas of every calculator in
// registration order. The order is stable so callers can rely on it for
// deterministic listings.
func (r *Registry) DescribeAll() []Interface {
	out := make([]Interface, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, Interface{Request: d.RequestSchema, Response: d.ResponseSchema})
	}
	return out
}

// Descriptors returns the registered descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}
