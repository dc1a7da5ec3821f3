package utils

import "strings"

// RegionDescriptiveNames maps AWS region codes to the location names used by the AWS Pricing API
var RegionDescriptiveNames = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"af-south-1":     "Africa (Cape Town)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ca-central-1":   "Canada (Central)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-north-1":     "EU (Stockholm)",
	"eu-south-1":     "EU (Milan)",
	"me-south-1":     "Middle East (Bahrain)",
	"sa-east-1":      "South America (Sao Paulo)",
}

// AzureRegionDisplayNames maps Azure region codes to their portal display names
var AzureRegionDisplayNames = map[string]string{
	"indonesiacentral":   "Indonesia Central",
	"uaenorth":           "UAE North",
	"switzerlandnorth":   "Switzerland North",
	"israelcentral":      "Israel Central",
	"francecentral":      "France Central",
	"chilecentral":       "Chile Central",
	"germanywestcentral": "Germany West Central",
	"mexicocentral":      "Mexico Central",
	"eastasia":           "East Asia",
	"southeastasia":      "Southeast Asia",
	"brazilsouth":        "Brazil South",
	"uswest":             "US West",
	"canadacentral":      "Canada Central",
	"westus":             "West US",
	"centralus":          "Central US",
	"northeurope":        "North Europe",
	"italynorth":         "Italy North",
	"swedencentral":      "Sweden Central",
	"westindia":          "West India",
	"australiaeast":      "Australia East",
	"northcentralus":     "North Central US",
	"southcentralus":     "South Central US",
	"westcentralus":      "West Central US",
	"southcentralus2":    "South Central US 2",
}

// GetRegionDescriptiveName returns the AWS Pricing API location name of a region
func GetRegionDescriptiveName(region string) (string, bool) {
	name, ok := RegionDescriptiveNames[region]
	return name, ok
}

// IsValidRegion checks if a region is a known AWS region
func IsValidRegion(region string) bool {
	_, ok := RegionDescriptiveNames[region]
	return ok
}

// GetDefaultRegion returns the default AWS region
func GetDefaultRegion() string {
	return "us-east-1"
}

// RegionDisplayName returns a human-readable name for an Azure or AWS region code.
// Unknown codes are returned unchanged.
func RegionDisplayName(region string) string {
	if name, ok := AzureRegionDisplayNames[strings.ToLower(region)]; ok {
		return name
	}
	if name, ok := RegionDescriptiveNames[region]; ok {
		return name
	}
	return region
}
