package pricing

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/stats"
	"github.com/younsl/pricenexus/pkg/utils"
	"go.uber.org/zap"
)

const (
	ec2ServiceCode = "AmazonEC2"

	// StatsService is the service name under which price list calls are counted
	StatsService = "AWS Pricing"

	// Without an instance type the price list is huge; only the first pages are read
	maxPages = 3
)

// ListPrices returns the Linux on-demand prices of EC2 instances in the filter's region.
// Region defaults to us-east-1; VMSize narrows the query to one instance type.
// The remaining filter fields are applied to the fetched rows.
func (s *Source) ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error) {
	region := f.Region
	if region == "" {
		region = utils.GetDefaultRegion()
	}
	location, ok := utils.GetRegionDescriptiveName(region)
	if !ok {
		return nil, fmt.Errorf("unsupported AWS region %q", region)
	}

	cacheKey := fmt.Sprintf("%s:%s", region, f.VMSize)

	s.cacheLock.RLock()
	cached, exists := s.cache[cacheKey]
	s.cacheLock.RUnlock()
	if exists {
		s.stats.Record(StatsService, region, stats.CacheHit)
		return applyFilter(cached, f), nil
	}

	docs, err := s.getPricingProducts(ctx, ec2ServiceCode, ec2Filters(location, f.VMSize), maxPages)
	if err != nil {
		s.stats.Record(StatsService, region, stats.Failure)
		return nil, err
	}

	records := make([]models.PricingRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := ParsePriceListItem(doc)
		if err != nil {
			s.logger.Debug("skipping price list item", zap.Error(err))
			continue
		}
		if record.RegionName == "" {
			record.RegionName = region
		}
		records = append(records, record)
	}
	slices.SortStableFunc(records, func(a, b models.PricingRecord) int {
		if c := strings.Compare(a.VMSize, b.VMSize); c != 0 {
			return c
		}
		return a.RetailPrice.Cmp(b.RetailPrice)
	})

	s.stats.Record(StatsService, region, stats.Success)

	s.cacheLock.Lock()
	s.cache[cacheKey] = records
	s.cacheLock.Unlock()

	return applyFilter(records, f), nil
}

// ec2Filters builds the price list filters for Linux on-demand shared-tenancy instances
func ec2Filters(location, instanceType string) []types.Filter {
	terms := [][2]string{
		{"location", location},
		{"operatingSystem", "Linux"},
		{"tenancy", "Shared"},
		{"preInstalledSw", "NA"},
		{"capacitystatus", "Used"},
	}
	if instanceType != "" {
		terms = append([][2]string{{"instanceType", instanceType}}, terms...)
	}

	filters := make([]types.Filter, 0, len(terms))
	for _, t := range terms {
		filters = append(filters, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(t[0]),
			Value: aws.String(t[1]),
		})
	}
	return filters
}

// applyFilter narrows rows by the filter fields the price list query cannot express
func applyFilter(records []models.PricingRecord, f models.PriceFilter) []models.PricingRecord {
	minPrice, hasMin := parseBound(f.MinPrice)
	maxPrice, hasMax := parseBound(f.MaxPrice)

	out := make([]models.PricingRecord, 0, len(records))
	for _, r := range records {
		if f.PriceType != "" && !strings.EqualFold(r.PriceType, f.PriceType) {
			continue
		}
		if hasMin && r.RetailPrice.LessThan(minPrice) {
			continue
		}
		if hasMax && r.RetailPrice.GreaterThan(maxPrice) {
			continue
		}
		if f.ProductName != "" && !strings.Contains(strings.ToLower(r.ProductName), strings.ToLower(f.ProductName)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseBound(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
