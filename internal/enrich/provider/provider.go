// Package provider defines the extension point for external enrichment
// sources. The default build registers none; the waterfall runs purely on
// deterministic heuristics until a deployment plugs a provider in.
package provider

import "context"

// Result is one field value returned by a provider lookup.
type Result struct {
	Field      string
	Value      string
	Ref        string
	Confidence float64
}

// Provider supplies optional entity fields from an external source. Lookup
// failures are non-fatal: the waterfall logs and moves on.
type Provider interface {
	Name() string
	CanProvide(field string) bool
	Lookup(ctx context.Context, domain, field string) (*Result, error)
}

// Registry holds the providers available to the waterfall, in registration
// order.
type Registry struct {
	providers []Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a provider.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// For returns the providers able to supply the given field.
func (r *Registry) For(field string) []Provider {
	var out []Provider
	for _, p := range r.providers {
		if p.CanProvide(field) {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}
