package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// LoadConfig loads the shared AWS configuration for a region.
// IMDS credential and region lookups are only attempted when useIMDS is set.
func LoadConfig(ctx context.Context, region string, useIMDS bool) (aws.Config, error) {
	imdsState := imds.ClientDisabled
	if useIMDS {
		imdsState = imds.ClientEnabled
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithEC2IMDSClientEnableState(imdsState),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config for region %s: %w", region, err)
	}
	return cfg, nil
}
