package detail

import (
	"context"
	"strings"

	"github.com/younsl/pricenexus/internal/models"
)

// Catalog is the spec source behind the detail view
type Catalog interface {
	ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error)
	ListVariants(ctx context.Context, f models.VariantFilter) ([]models.InstanceSpec, error)
}

// Lookup fetches the full spec of one size in one region. The size matches case-insensitively.
func Lookup(ctx context.Context, catalog Catalog, region, size string) (models.InstanceSpec, error) {
	rows, err := catalog.ListSpecs(ctx, models.SpecFilter{Region: region, Name: size})
	if err != nil {
		return models.InstanceSpec{}, &LoadError{Action: "Failed to load VM data", Err: err}
	}
	if len(rows) == 0 {
		return models.InstanceSpec{}, &NotFoundError{Region: region, Size: size, NoRows: true}
	}
	for _, vm := range rows {
		if strings.EqualFold(vm.Name, size) {
			return vm, nil
		}
	}
	return models.InstanceSpec{}, &NotFoundError{Region: region, Size: size}
}
