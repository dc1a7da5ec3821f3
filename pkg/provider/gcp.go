package provider

import (
	"context"

	"github.com/younsl/pricenexus/internal/models"
)

// GCPName is the registry name of the Google Cloud provider
const GCPName = "gcp"

// GCP is a placeholder until a Google Cloud data source exists
type GCP struct{}

// Name implements Provider
func (GCP) Name() string { return GCPName }

// ListPrices implements Provider
func (GCP) ListPrices(context.Context, models.PriceFilter) ([]models.PricingRecord, error) {
	return nil, ErrUnsupported
}

// ListSpecs implements Provider
func (GCP) ListSpecs(context.Context, models.SpecFilter) ([]models.InstanceSpec, error) {
	return nil, ErrUnsupported
}

// Compare implements Provider
func (GCP) Compare(context.Context, []models.VMRef) (*models.ComparisonPayload, error) {
	return nil, ErrUnsupported
}
