package detail

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/store"
)

// VariantDebounce is the quiet period before a variants filter edit is applied
const VariantDebounce = 300 * time.Millisecond

// defaultTiers are always offered in the tier selector
var defaultTiers = []string{"Basic", "Standard"}

// VariantSet is what a variants query offers to pivot to
type VariantSet struct {
	Sizes    []string
	Regions  []string
	Families []string
	Tiers    []string
}

// State is a snapshot of an Explorer
type State struct {
	Region   string
	Size     string
	Selected *models.InstanceSpec
	Filter   models.VariantFilter
	Variants VariantSet
	Err      string
}

// Explorer drives the detail view of one VM and its variants selector
type Explorer struct {
	catalog   Catalog
	region    string
	size      string
	debouncer *store.Debouncer

	mu       sync.Mutex
	selected *models.InstanceSpec
	filter   models.VariantFilter
	variants VariantSet
	err      string
}

// NewExplorer creates an explorer for the VM size in region
func NewExplorer(catalog Catalog, region, size string) *Explorer {
	return &Explorer{
		catalog:   catalog,
		region:    region,
		size:      size,
		debouncer: store.NewDebouncer(VariantDebounce),
		filter:    models.VariantFilter{Region: region},
	}
}

// State returns a copy of the explorer state
func (e *Explorer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Region:   e.region,
		Size:     e.size,
		Filter:   e.filter,
		Variants: e.variants,
		Err:      e.err,
	}
	if e.selected != nil {
		vm := *e.selected
		s.Selected = &vm
	}
	return s
}

// Init looks up the page's VM, records its family and loads the family's variants in the region
func (e *Explorer) Init(ctx context.Context) error {
	vm, err := Lookup(ctx, e.catalog, e.region, e.size)
	if err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			err = &LoadError{Action: "Failed to load variants", Err: lerr.Err}
		}
		return e.fail(err)
	}

	e.mu.Lock()
	e.filter.Family = vm.Family
	e.mu.Unlock()

	rows, err := e.catalog.ListVariants(ctx, models.VariantFilter{Region: e.region, Family: vm.Family})
	if err != nil {
		return e.fail(&LoadError{Action: "Failed to load variants", Err: err})
	}
	if len(rows) == 0 {
		e.mu.Lock()
		e.variants = VariantSet{}
		e.selected = &vm
		e.mu.Unlock()
		return e.fail(&EmptyResultError{Message: fmt.Sprintf("No variants found for %s in %s", vm.Family, e.region)})
	}

	set := deriveVariants(rows, e.size)
	vm.AvailableRegions = set.Regions

	e.mu.Lock()
	defer e.mu.Unlock()
	e.variants = set
	e.selected = &vm
	e.err = ""
	return nil
}

// Apply re-queries the variants with a filter. When a tier is set the region and
// family snap to the first returned row, which also becomes the selected VM.
func (e *Explorer) Apply(ctx context.Context, f models.VariantFilter) error {
	e.mu.Lock()
	e.filter = f
	e.mu.Unlock()

	rows, err := e.catalog.ListVariants(ctx, f)
	if err != nil {
		return e.fail(&LoadError{Action: "Failed to apply filters for Variants", Err: err})
	}
	if len(rows) == 0 {
		e.mu.Lock()
		e.variants.Sizes = nil
		e.variants.Regions = nil
		e.mu.Unlock()
		return e.fail(&EmptyResultError{Message: "No VMs found for the applied filters"})
	}

	set := deriveVariants(rows, e.size)

	e.mu.Lock()
	defer e.mu.Unlock()
	if f.Tier != "" {
		first := rows[0]
		if first.Region != "" {
			e.filter.Region = first.Region
		}
		if first.Family != "" {
			e.filter.Family = first.Family
		}
		first.AvailableRegions = set.Regions
		e.selected = &first
	}
	e.variants = set
	e.err = ""
	return nil
}

// SetFilter edits one variants filter field and applies the filter after the quiet period.
// done receives the result of the debounced apply.
func (e *Explorer) SetFilter(ctx context.Context, key, value string, done func(error)) error {
	e.mu.Lock()
	f := e.filter
	err := f.Set(key, value)
	if err == nil {
		e.filter = f
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if f.IsZero() {
		e.debouncer.Stop()
		return nil
	}
	e.debouncer.Trigger(func() {
		err := e.Apply(ctx, f)
		if done != nil {
			done(err)
		}
	})
	return nil
}

// ClearFilters resets the variants filter and the error without querying
func (e *Explorer) ClearFilters() {
	e.debouncer.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = models.VariantFilter{}
	e.err = ""
}

// Select pivots the detail view to another size in the page's region
func (e *Explorer) Select(ctx context.Context, size string) error {
	rows, err := e.catalog.ListSpecs(ctx, models.SpecFilter{Region: e.region, Name: size})
	if err != nil {
		return e.fail(&LoadError{Action: "Failed to load VM data", Err: err})
	}
	if len(rows) == 0 {
		return e.fail(&NotFoundError{Region: e.region, Size: size, NoRows: true})
	}

	vm := rows[0]

	e.mu.Lock()
	defer e.mu.Unlock()
	vm.AvailableRegions = slices.Clone(e.variants.Regions)
	e.selected = &vm
	e.err = ""
	return nil
}

// Close stops any pending filter apply
func (e *Explorer) Close() {
	e.debouncer.Stop()
}

func (e *Explorer) fail(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err.Error()
	return err
}

// deriveVariants collects the distinct sizes, regions, families and tiers of rows in
// first-seen order. The current size is excluded from the sizes.
func deriveVariants(rows []models.InstanceSpec, current string) VariantSet {
	var set VariantSet
	for _, vm := range rows {
		if vm.Size != "" && !strings.EqualFold(vm.Size, current) {
			set.Sizes = appendUnique(set.Sizes, vm.Size)
		}
		if vm.Region != "" {
			set.Regions = appendUnique(set.Regions, vm.Region)
		}
		if vm.Family != "" {
			set.Families = appendUnique(set.Families, vm.Family)
		}
		if vm.Tier != "" {
			set.Tiers = appendUnique(set.Tiers, vm.Tier)
		}
	}
	for _, tier := range defaultTiers {
		set.Tiers = appendUnique(set.Tiers, tier)
	}
	return set
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
