package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/younsl/pricenexus/internal/models"
	awsclient "github.com/younsl/pricenexus/pkg/aws"
	"github.com/younsl/pricenexus/pkg/utils"
)

// AWSName is the registry name of the AWS provider
const AWSName = "aws"

// PriceSource lists on-demand EC2 prices
type PriceSource interface {
	ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error)
}

// SpecSource describes instance types in one region
type SpecSource interface {
	DescribeInstanceSpecs(ctx context.Context, names []string) ([]models.InstanceSpec, error)
}

// SpecSourceFactory creates the spec source of a region
type SpecSourceFactory func(ctx context.Context, region string) (SpecSource, error)

// EC2SpecSources returns a factory creating EC2 clients from the default credential chain
func EC2SpecSources(useIMDS bool) SpecSourceFactory {
	return func(ctx context.Context, region string) (SpecSource, error) {
		client, err := awsclient.NewEC2Client(ctx, region, useIMDS)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// AWS reads prices from the AWS Price List API and specs from EC2
type AWS struct {
	prices        PriceSource
	newSpecs      SpecSourceFactory
	defaultRegion string

	mu    sync.Mutex
	specs map[string]SpecSource
}

// NewAWS creates the AWS provider
func NewAWS(prices PriceSource, specs SpecSourceFactory, defaultRegion string) *AWS {
	if defaultRegion == "" {
		defaultRegion = utils.GetDefaultRegion()
	}
	return &AWS{
		prices:        prices,
		newSpecs:      specs,
		defaultRegion: defaultRegion,
		specs:         make(map[string]SpecSource),
	}
}

// Name implements Provider
func (a *AWS) Name() string { return AWSName }

// ListPrices implements Provider
func (a *AWS) ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error) {
	if f.Region == "" {
		f.Region = a.defaultRegion
	}
	return a.prices.ListPrices(ctx, f)
}

// ListSpecs implements Provider. Name selects instance types server-side,
// the remaining fields filter the described types.
func (a *AWS) ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error) {
	region := f.Region
	if region == "" {
		region = a.defaultRegion
	}
	if !utils.IsValidRegion(region) {
		return nil, fmt.Errorf("unsupported AWS region: %s", region)
	}

	src, err := a.specSource(ctx, region)
	if err != nil {
		return nil, err
	}

	var names []string
	if f.Name != "" {
		names = []string{f.Name}
	}
	specs, err := src.DescribeInstanceSpecs(ctx, names)
	if err != nil {
		return nil, err
	}
	return filterSpecs(specs, f), nil
}

// Compare implements Provider. Specs are described per region and returned in ref order;
// refs that EC2 does not know are left out.
func (a *AWS) Compare(ctx context.Context, refs []models.VMRef) (*models.ComparisonPayload, error) {
	byRegion := make(map[string][]string)
	var regions []string
	for _, ref := range refs {
		if _, ok := byRegion[ref.Region]; !ok {
			regions = append(regions, ref.Region)
		}
		byRegion[ref.Region] = append(byRegion[ref.Region], ref.Name)
	}

	found := make(map[models.VMRef]models.InstanceSpec, len(refs))
	for _, region := range regions {
		src, err := a.specSource(ctx, region)
		if err != nil {
			return nil, err
		}
		specs, err := src.DescribeInstanceSpecs(ctx, byRegion[region])
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			found[models.VMRef{Region: region, Name: s.Name}] = s
		}
	}

	data := make([]models.InstanceSpec, 0, len(refs))
	for _, ref := range refs {
		if s, ok := found[ref]; ok {
			data = append(data, s)
		}
	}
	return &models.ComparisonPayload{Data: data, Analysis: Analysis(data)}, nil
}

func (a *AWS) specSource(ctx context.Context, region string) (SpecSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if src, ok := a.specs[region]; ok {
		return src, nil
	}
	src, err := a.newSpecs(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("error creating EC2 client for %s: %w", region, err)
	}
	a.specs[region] = src
	return src, nil
}

func filterSpecs(specs []models.InstanceSpec, f models.SpecFilter) []models.InstanceSpec {
	minVCPUs, hasMinVCPUs := parseFloat(f.MinVCPUs)
	maxVCPUs, hasMaxVCPUs := parseFloat(f.MaxVCPUs)
	minMem, hasMinMem := parseFloat(f.MinMemoryGB)
	maxMem, hasMaxMem := parseFloat(f.MaxMemoryGB)

	out := make([]models.InstanceSpec, 0, len(specs))
	for _, s := range specs {
		switch {
		case f.Family != "" && !strings.EqualFold(s.Family, f.Family):
		case f.Size != "" && !strings.EqualFold(s.Size, f.Size):
		case f.Tier != "" && !strings.EqualFold(s.Tier, f.Tier):
		case hasMinVCPUs && s.VCPUs < minVCPUs:
		case hasMaxVCPUs && s.VCPUs > maxVCPUs:
		case hasMinMem && s.MemoryGB < minMem:
		case hasMaxMem && s.MemoryGB > maxMem:
		case f.AcceleratedNetworking != "" && !matchFlag(bool(s.AcceleratedNetworking), f.AcceleratedNetworking):
		case f.LowPriority != "" && !matchFlag(bool(s.LowPriority), f.LowPriority):
		default:
			out = append(out, s)
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func matchFlag(v bool, want string) bool {
	switch strings.ToLower(want) {
	case "true", "yes", "1":
		return v
	case "false", "no", "0":
		return !v
	}
	return true
}
