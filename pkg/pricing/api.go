package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/younsl/pricenexus/internal/models"
	awsclient "github.com/younsl/pricenexus/pkg/aws"
	"github.com/younsl/pricenexus/pkg/stats"
	"go.uber.org/zap"
)

// The AWS Pricing API is only available in us-east-1 and ap-south-1
const pricingRegion = "us-east-1"

// ProductsAPI is the subset of the AWS Pricing API used by Source
type ProductsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Options configures a Source
type Options struct {
	UseIMDS bool
	Logger  *zap.Logger
	Stats   *stats.Recorder

	// API replaces the lazily created AWS client, mainly for tests
	API ProductsAPI
}

// Source reads EC2 on-demand prices from the AWS Price List API
type Source struct {
	initOnce    sync.Once
	api         ProductsAPI
	initErr     error
	initMessage string
	useIMDS     bool

	cacheLock sync.RWMutex
	cache     map[string][]models.PricingRecord

	logger *zap.Logger
	stats  *stats.Recorder
}

// NewSource creates a price list source. The AWS client is created on first use.
func NewSource(opts Options) *Source {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		api:     opts.API,
		useIMDS: opts.UseIMDS,
		cache:   make(map[string][]models.PricingRecord),
		logger:  log,
		stats:   opts.Stats,
	}
}

func (s *Source) init(ctx context.Context) {
	if s.api != nil {
		return
	}

	cfg, err := awsclient.LoadConfig(ctx, pricingRegion, s.useIMDS)
	if err != nil {
		s.initErr = fmt.Errorf("error loading AWS config for pricing API: %w", err)
		return
	}

	s.api = pricing.NewFromConfig(cfg)
	s.initMessage = fmt.Sprintf("AWS Pricing API initialized in %s region (https://api.pricing.%s.amazonaws.com)", pricingRegion, pricingRegion)
	s.logger.Debug("pricing client initialized", zap.String("region", pricingRegion))
}

// InitMessage returns the initialization message once and clears it
func (s *Source) InitMessage() string {
	msg := s.initMessage
	s.initMessage = ""
	return msg
}

// getPricingProducts gets up to maxPages pages of price list documents
func (s *Source) getPricingProducts(ctx context.Context, serviceCode string, filters []types.Filter, maxPages int) ([]string, error) {
	s.initOnce.Do(func() { s.init(ctx) })
	if s.initErr != nil {
		return nil, s.initErr
	}

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(100),
	}

	var docs []string
	paginator := pricing.NewGetProductsPaginator(s.api, input)
	for page := 0; page < maxPages && paginator.HasMorePages(); page++ {
		resp, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error calling AWS Pricing API: %w", err)
		}
		docs = append(docs, resp.PriceList...)
	}
	return docs, nil
}
