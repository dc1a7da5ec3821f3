package models

// InstanceSpec represents the hardware and capability description of one VM size in one region
type InstanceSpec struct {
	Region                     string   `json:"Region"`
	Name                       string   `json:"Name"`
	Family                     string   `json:"Family"`
	Tier                       string   `json:"Tier"`
	Size                       string   `json:"Size"`
	VMGenerationsSupported     string   `json:"VMGenerationsSupported"`
	VMDeploymentMethod         string   `json:"VMDeploymentMethod"`
	LowPriority                FlexBool `json:"LowPriority"`
	VCPUs                      float64  `json:"vCPUs"`
	MemoryGB                   float64  `json:"MemoryGB"`
	VCPUsPerCore               float64  `json:"vCPUsPerCore"`
	MemoryPerVCPU              float64  `json:"MemoryPervCPU"`
	MaxResourceVolumeMB        float64  `json:"MaxResourceVolumeMB"`
	OSVhdSizeMB                float64  `json:"OSVhdSizeMB"`
	MaxDataDiskCount           float64  `json:"MaxDataDiskCount"`
	LocalTempStorageGB         float64  `json:"LocalTempStorageGB"`
	CapacitySupported          FlexBool `json:"CapacitySupported"`
	EphemeralOSDiskSupported   FlexBool `json:"EphemeralOSDiskSupported"`
	AcceleratedNetworking      FlexBool `json:"AcceleratedNetworking"`
	PremiumIO                  FlexBool `json:"PremiumIO"`
	RDMA                       FlexBool `json:"RDMA"`
	Encryption                 FlexBool `json:"Encryption"`
	MemoryMaintenance          FlexBool `json:"MemoryMaintenance"`
	MaxNetworkInterfaces       float64  `json:"MaxNetworkInterfaces"`
	CPUArchitecture            string   `json:"CpuArchitecture"`
	UncachedDiskIOPS           float64  `json:"UncachedDiskIOPS"`
	UncachedDiskBytesPerSecond float64  `json:"UncachedDiskBytesPerSecond"`
	TempDiskAndCachedIOPS      float64  `json:"TempDiskAndCachedIOPS"`
	TempDiskAndCachedReadBps   float64  `json:"TempDiskAndCachedReadBps"`
	TempDiskAndCachedWriteBps  float64  `json:"TempDiskAndCachedWriteBps"`
	NetworkPerformance         string   `json:"NetworkPerformance,omitempty"`
	PriceType                  string   `json:"priceType,omitempty"`
	EffectiveDate              string   `json:"effectiveDate,omitempty"`

	// AvailableRegions is filled from the variants query, never by the backend record itself
	AvailableRegions []string `json:"availableRegions,omitempty"`
}

// VMRef identifies a VM size in a region for the compare endpoints
type VMRef struct {
	Region string `json:"region"`
	Name   string `json:"name"`
}

// Analysis holds the per-instance series the backend returns with a comparison
type Analysis struct {
	VMNames  []string  `json:"vmNames"`
	VCPUs    []float64 `json:"vCPUs"`
	MemoryGB []float64 `json:"memoryGB"`
}

// ComparisonPayload is the response body of the compare endpoint
type ComparisonPayload struct {
	Data     []InstanceSpec `json:"data"`
	Analysis Analysis       `json:"analysis"`
}
