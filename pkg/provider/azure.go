package provider

import (
	"context"

	"github.com/younsl/pricenexus/internal/models"
)

// AzureName is the registry name of the Azure provider
const AzureName = "azure"

// AzureAPI is the part of the backend client the Azure provider uses
type AzureAPI interface {
	ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error)
	ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error)
	ListFamily(ctx context.Context, f models.FamilyFilter) ([]models.InstanceSpec, error)
	ListVariants(ctx context.Context, f models.VariantFilter) ([]models.InstanceSpec, error)
	Compare(ctx context.Context, refs []models.VMRef) (*models.ComparisonPayload, error)
}

// Azure serves the Azure retail prices and VM specs held by the pricing backend
type Azure struct {
	api AzureAPI
}

// NewAzure creates the Azure provider
func NewAzure(api AzureAPI) *Azure {
	return &Azure{api: api}
}

// Name implements Provider
func (a *Azure) Name() string { return AzureName }

// ListPrices implements Provider
func (a *Azure) ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error) {
	rows, err := a.api.ListPrices(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Provider == "" {
			rows[i].Provider = AzureName
		}
	}
	return rows, nil
}

// ListSpecs implements Provider
func (a *Azure) ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error) {
	return a.api.ListSpecs(ctx, f)
}

// ListFamily returns the sizes of one family
func (a *Azure) ListFamily(ctx context.Context, f models.FamilyFilter) ([]models.InstanceSpec, error) {
	return a.api.ListFamily(ctx, f)
}

// ListVariants returns the sizes matching the variants filter of the detail view
func (a *Azure) ListVariants(ctx context.Context, f models.VariantFilter) ([]models.InstanceSpec, error) {
	return a.api.ListVariants(ctx, f)
}

// Compare implements Provider
func (a *Azure) Compare(ctx context.Context, refs []models.VMRef) (*models.ComparisonPayload, error) {
	return a.api.Compare(ctx, refs)
}
