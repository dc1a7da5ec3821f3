package aws

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/utils"
)

// EC2API is the subset of the EC2 API used to describe instance types
type EC2API interface {
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// NewEC2Client creates a new EC2Client
func NewEC2Client(ctx context.Context, region string, useIMDS bool) (*EC2Client, error) {
	cfg, err := LoadConfig(ctx, region, useIMDS)
	if err != nil {
		return nil, err
	}
	return NewEC2ClientWithAPI(ec2.NewFromConfig(cfg), region), nil
}

// NewEC2ClientWithAPI wraps an existing EC2 API implementation
func NewEC2ClientWithAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{client: api, region: region}
}

// Region returns the region the client describes instance types in
func (c *EC2Client) Region() string {
	return c.region
}

// DescribeInstanceSpecs returns the specification of the named instance types,
// or of every instance type offered in the region when names is empty
func (c *EC2Client) DescribeInstanceSpecs(ctx context.Context, names []string) ([]models.InstanceSpec, error) {
	input := &ec2.DescribeInstanceTypesInput{}
	for _, name := range names {
		input.InstanceTypes = append(input.InstanceTypes, types.InstanceType(name))
	}

	specs := []models.InstanceSpec{}
	paginator := ec2.NewDescribeInstanceTypesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing EC2 instance types in %s: %w", c.region, err)
		}
		for _, info := range page.InstanceTypes {
			specs = append(specs, InstanceSpecFromType(info, c.region))
		}
	}

	slices.SortFunc(specs, func(a, b models.InstanceSpec) int {
		return strings.Compare(a.Name, b.Name)
	})
	return specs, nil
}

// InstanceSpecFromType converts an EC2 instance type description into an InstanceSpec
func InstanceSpecFromType(info types.InstanceTypeInfo, region string) models.InstanceSpec {
	name := string(info.InstanceType)
	family, size, _ := strings.Cut(name, ".")

	spec := models.InstanceSpec{
		Region:             region,
		Name:               name,
		Family:             family,
		Tier:               "Standard",
		Size:               size,
		VMDeploymentMethod: string(info.Hypervisor),
		LowPriority:        models.FlexBool(slices.Contains(info.SupportedUsageClasses, types.UsageClassTypeSpot)),
		CapacitySupported:  models.FlexBool(slices.Contains(info.SupportedUsageClasses, types.UsageClassTypeCapacityBlock)),
	}
	spec.EphemeralOSDiskSupported = models.FlexBool(aws.ToBool(info.InstanceStorageSupported))
	if aws.ToBool(info.BareMetal) {
		spec.VMDeploymentMethod = "bare-metal"
	}

	if info.VCpuInfo != nil {
		spec.VCPUs = float64(aws.ToInt32(info.VCpuInfo.DefaultVCpus))
		spec.VCPUsPerCore = float64(aws.ToInt32(info.VCpuInfo.DefaultThreadsPerCore))
	}
	if info.MemoryInfo != nil {
		spec.MemoryGB = float64(aws.ToInt64(info.MemoryInfo.SizeInMiB)) / 1024
	}
	if spec.VCPUs > 0 {
		spec.MemoryPerVCPU = spec.MemoryGB / spec.VCPUs
	}
	if info.InstanceStorageInfo != nil {
		spec.LocalTempStorageGB = float64(aws.ToInt64(info.InstanceStorageInfo.TotalSizeInGB))
		for _, disk := range info.InstanceStorageInfo.Disks {
			spec.MaxDataDiskCount += float64(aws.ToInt32(disk.Count))
		}
	}
	if info.EbsInfo != nil {
		spec.PremiumIO = models.FlexBool(info.EbsInfo.EbsOptimizedSupport != types.EbsOptimizedSupportUnsupported)
		spec.Encryption = models.FlexBool(info.EbsInfo.EncryptionSupport == types.EbsEncryptionSupportSupported)
		if opt := info.EbsInfo.EbsOptimizedInfo; opt != nil {
			spec.UncachedDiskIOPS = float64(aws.ToInt32(opt.MaximumIops))
			spec.UncachedDiskBytesPerSecond = aws.ToFloat64(opt.MaximumThroughputInMBps) * 1e6
		}
	}
	if info.NetworkInfo != nil {
		spec.NetworkPerformance = utils.SafeDeref(info.NetworkInfo.NetworkPerformance)
		spec.AcceleratedNetworking = models.FlexBool(info.NetworkInfo.EnaSupport != "" && info.NetworkInfo.EnaSupport != types.EnaSupportUnsupported)
		spec.RDMA = models.FlexBool(aws.ToBool(info.NetworkInfo.EfaSupported))
		spec.MaxNetworkInterfaces = float64(aws.ToInt32(info.NetworkInfo.MaximumNetworkInterfaces))
	}
	if info.ProcessorInfo != nil {
		archs := make([]string, 0, len(info.ProcessorInfo.SupportedArchitectures))
		for _, a := range info.ProcessorInfo.SupportedArchitectures {
			archs = append(archs, string(a))
		}
		spec.CPUArchitecture = strings.Join(archs, ", ")
	}
	if len(info.SupportedBootModes) > 0 {
		modes := make([]string, 0, len(info.SupportedBootModes))
		for _, m := range info.SupportedBootModes {
			modes = append(modes, string(m))
		}
		spec.VMGenerationsSupported = strings.Join(modes, ", ")
	}

	return spec
}
