package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/detail"
	"github.com/younsl/pricenexus/pkg/table"
	"github.com/younsl/pricenexus/pkg/utils"
)

type field struct {
	label string
	value string
}

type section struct {
	title  string
	fields []field
}

const mib = 1024 * 1024

func detailSections(vm models.InstanceSpec) []section {
	return []section{
		{
			title: "General",
			fields: []field{
				{"Region", orNA(utils.RegionDisplayName(vm.Region))},
				{"VM Size", orNA(vm.Name)},
				{"Family", orNA(vm.Family)},
				{"Tier", orNA(vm.Tier)},
				{"Size", orNA(vm.Size)},
				{"VM Generations Supported", orNA(vm.VMGenerationsSupported)},
				{"VM Deployment Method", orNA(vm.VMDeploymentMethod)},
				{"Low Priority Available", table.YesNo(bool(vm.LowPriority))},
			},
		},
		{
			title: "Compute & Storage",
			fields: []field{
				{"vCPUs", number(vm.VCPUs)},
				{"Memory", gb(vm.MemoryGB)},
				{"vCPUs Per Core", number(vm.VCPUsPerCore)},
				{"Memory per vCPU", gb(vm.MemoryPerVCPU)},
				{"Max Resource Volume", bytesFromMB(vm.MaxResourceVolumeMB)},
				{"OS VHD Size", bytesFromMB(vm.OSVhdSizeMB)},
				{"Max Data Disk Count", number(vm.MaxDataDiskCount)},
				{"Local Temp Storage", gb(vm.LocalTempStorageGB)},
				{"Capacity Supported", table.YesNo(bool(vm.CapacitySupported))},
				{"Ephemeral OS Disk Supported", table.YesNo(bool(vm.EphemeralOSDiskSupported))},
			},
		},
		{
			title: "Networking & Advanced",
			fields: []field{
				{"Accelerated Networking", table.YesNo(bool(vm.AcceleratedNetworking))},
				{"Premium I/O", table.YesNo(bool(vm.PremiumIO))},
				{"RDMA", table.YesNo(bool(vm.RDMA))},
				{"Encryption Supported", table.YesNo(bool(vm.Encryption))},
				{"Memory Maintenance", table.YesNo(bool(vm.MemoryMaintenance))},
				{"Max Network Interfaces", number(vm.MaxNetworkInterfaces)},
				{"CPU Architecture", orNA(vm.CPUArchitecture)},
				{"Network Performance", orNA(vm.NetworkPerformance)},
			},
		},
		{
			title: "Disk I/O Performance",
			fields: []field{
				{"Uncached Disk IOPS", number(vm.UncachedDiskIOPS)},
				{"Uncached Disk Throughput", throughput(vm.UncachedDiskBytesPerSecond)},
				{"Cached Disk IOPS", number(vm.TempDiskAndCachedIOPS)},
				{"Cached Read Throughput", throughput(vm.TempDiskAndCachedReadBps)},
				{"Cached Write Throughput", throughput(vm.TempDiskAndCachedWriteBps)},
			},
		},
	}
}

// PrintDetail prints the detail panels of one VM followed by its available regions
func PrintDetail(w io.Writer, vm models.InstanceSpec) {
	for _, s := range detailSections(vm) {
		PrintHeading(w, s.title)
		tw := newTabWriter(w)
		for _, f := range s.fields {
			fmt.Fprintf(tw, "%s:\t%s\n", f.label, f.value)
		}
		tw.Flush()
	}

	PrintHeading(w, "Available Regions")
	if len(vm.AvailableRegions) == 0 {
		fmt.Fprintln(w, "No regions available.")
		return
	}
	for _, r := range vm.AvailableRegions {
		fmt.Fprintf(w, "  - %s\n", utils.RegionDisplayName(r))
	}
}

// PrintVariants prints the variants selector: the filter in effect and the sizes to pivot to
func PrintVariants(w io.Writer, st detail.State) {
	PrintHeading(w, "Variants")

	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Region:\t%s\t(%s)\n", orNA(st.Filter.Region), list(st.Variants.Regions))
	fmt.Fprintf(tw, "Family:\t%s\t(%s)\n", orNA(st.Filter.Family), list(st.Variants.Families))
	fmt.Fprintf(tw, "Tier:\t%s\t(%s)\n", orNA(st.Filter.Tier), list(st.Variants.Tiers))
	tw.Flush()

	if st.Err != "" {
		PrintError(w, st.Err)
		return
	}
	if len(st.Variants.Sizes) == 0 {
		fmt.Fprintln(w, "No other sizes in this family.")
		return
	}
	fmt.Fprintf(w, "Sizes: %s\n", strings.Join(st.Variants.Sizes, ", "))
}

func list(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return table.NotAvailable
	}
	return s
}

func number(v float64) string {
	if v == 0 {
		return table.NotAvailable
	}
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func gb(v float64) string {
	if v == 0 {
		return table.NotAvailable
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " GB"
}

func bytesFromMB(v float64) string {
	if v <= 0 {
		return table.NotAvailable
	}
	return humanize.IBytes(uint64(v * mib))
}

func throughput(bps float64) string {
	if bps <= 0 {
		return table.NotAvailable
	}
	return fmt.Sprintf("%.2f MB/s", bps/mib)
}
