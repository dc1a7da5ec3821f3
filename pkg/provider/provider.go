// Package provider puts the cloud price and spec sources behind one interface.
package provider

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/younsl/pricenexus/internal/models"
)

// ErrUnsupported is returned by providers without a data source
var ErrUnsupported = errors.New("provider is not yet supported")

// Provider is a source of prices and instance specs for one cloud
type Provider interface {
	Name() string
	ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error)
	ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error)
	Compare(ctx context.Context, refs []models.VMRef) (*models.ComparisonPayload, error)
}

// order is the display order of the built-in providers
var order = []string{AzureName, AWSName, GCPName}

// Registry resolves providers by name
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry holding the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the named provider
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (valid: %v)", name, r.Names())
	}
	return p, nil
}

// Names lists the registered providers, built-in ones first
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, name := range order {
		if _, ok := r.providers[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range r.providers {
		if !slices.Contains(order, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Analysis builds the per-instance series the backend sends with a comparison
func Analysis(specs []models.InstanceSpec) models.Analysis {
	a := models.Analysis{
		VMNames:  make([]string, 0, len(specs)),
		VCPUs:    make([]float64, 0, len(specs)),
		MemoryGB: make([]float64, 0, len(specs)),
	}
	for _, s := range specs {
		a.VMNames = append(a.VMNames, s.Name)
		a.VCPUs = append(a.VCPUs, s.VCPUs)
		a.MemoryGB = append(a.MemoryGB, s.MemoryGB)
	}
	return a
}
