package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/compare"
	"github.com/younsl/pricenexus/pkg/detail"
	"github.com/younsl/pricenexus/pkg/stats"
	"github.com/younsl/pricenexus/pkg/table"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestPrintPricingTable_CompareMode(t *testing.T) {
	rows := []models.PricingRecord{
		{RegionName: "eastus", VMSize: "D2s_v3", PriceType: "Consumption", EffectiveDate: "2024-06-20",
			PricePerHour: decimal.NewNullDecimal(decimal.RequireFromString("0.096")), Currency: "USD"},
		{RegionName: "westus", VMSize: "D4s_v3", PriceType: "Consumption", EffectiveDate: "2024-01-01", Currency: "USD"},
	}
	cols, err := table.SelectColumns(table.PricingColumns(now), []string{"regionName", "vmSize", "pricePerHour", "effectiveDate"})
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintPricingTable(&buf, rows, cols, TableOptions{
		Offset:   10,
		Sort:     table.SortState{Key: "vmSize", Direction: table.Descending},
		Selected: func(key string) bool { return key == rows[0].ItemKey() },
	})

	out := lines(buf.String())
	require.Len(t, out, 3)
	assert.Regexp(t, `^#\s+SEL\s+REGION\s+VM SIZE ▼\s+PRICE/HOUR\s+EFFECTIVE DATE`, out[0])
	assert.Regexp(t, `^11\s+\[x\]\s+eastus\s+D2s_v3\s+\$0\.096\s+Jun 20, 2024 NEW!$`, out[1])
	assert.Regexp(t, `^12\s+\[ \]\s+West US\s+D4s_v3\s+N/A\s+Jan 1, 2024$`, out[2])
}

func TestPrintSpecTable(t *testing.T) {
	cols, err := table.SelectColumns(table.SpecColumns(), []string{"Name", "vCPUs"})
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSpecTable(&buf, []models.InstanceSpec{{Name: "D2s_v3", VCPUs: 2}}, cols, TableOptions{
		Selected: func(string) bool { return true },
	})
	out := lines(buf.String())
	assert.NotContains(t, out[0], "SEL", "spec tables have no compare mode")
	assert.Regexp(t, `^1\s+D2s_v3\s+2$`, out[1])
}

func TestPrintPageFooter(t *testing.T) {
	p := table.NewPager(10)
	p.Reset(25)
	p.Next()

	var buf bytes.Buffer
	PrintPageFooter(&buf, p)
	assert.Equal(t, "Page 2 of 3 (25 rows) [prev|next]\n", buf.String())

	buf.Reset()
	p.Reset(0)
	PrintPageFooter(&buf, p)
	assert.Equal(t, "Page 1 of 1 (0 rows)\n", buf.String())
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, PrintState(&buf, State{Err: "Failed to fetch pricing data. boom"}, "No data"))
	assert.Equal(t, "Failed to fetch pricing data. boom\n", buf.String())

	buf.Reset()
	assert.True(t, PrintState(&buf, State{Empty: true}, "No pricing data found."))
	assert.Equal(t, "No pricing data found.\n", buf.String())

	buf.Reset()
	assert.False(t, PrintState(&buf, State{}, "unused"))
	assert.Empty(t, buf.String())
}

func TestPrintDetail(t *testing.T) {
	vm := models.InstanceSpec{
		Region:                     "eastasia",
		Name:                       "Standard_D2s_v3",
		VCPUs:                      2,
		MemoryGB:                   8,
		MaxResourceVolumeMB:        16384,
		UncachedDiskIOPS:           3200,
		UncachedDiskBytesPerSecond: 48 * 1024 * 1024,
		AcceleratedNetworking:      true,
		AvailableRegions:           []string{"westus", "eastus"},
	}

	var buf bytes.Buffer
	PrintDetail(&buf, vm)
	out := buf.String()

	for _, heading := range []string{"## General", "## Compute & Storage", "## Networking & Advanced", "## Disk I/O Performance", "## Available Regions"} {
		assert.Contains(t, out, heading)
	}
	assert.Regexp(t, `Region:\s+East Asia`, out)
	assert.Regexp(t, `Memory:\s+8 GB`, out)
	assert.Regexp(t, `Max Resource Volume:\s+16 GiB`, out)
	assert.Regexp(t, `Uncached Disk IOPS:\s+3,200`, out)
	assert.Regexp(t, `Uncached Disk Throughput:\s+48\.00 MB/s`, out)
	assert.Regexp(t, `Accelerated Networking:\s+Yes`, out)
	assert.Regexp(t, `Tier:\s+N/A`, out)
	assert.Contains(t, out, "  - West US\n  - eastus\n")

	buf.Reset()
	PrintDetail(&buf, models.InstanceSpec{})
	assert.Contains(t, buf.String(), "No regions available.")
}

func TestPrintVariants(t *testing.T) {
	var buf bytes.Buffer
	PrintVariants(&buf, detail.State{
		Filter:   models.VariantFilter{Region: "eastus", Family: "standardDSv3Family"},
		Variants: detail.VariantSet{Sizes: []string{"D4s_v3", "D8s_v3"}, Tiers: []string{"Standard", "Basic"}},
	})
	out := buf.String()
	assert.Regexp(t, `Tier:\s+N/A\s+\(Standard, Basic\)`, out)
	assert.Contains(t, out, "Sizes: D4s_v3, D8s_v3")

	buf.Reset()
	PrintVariants(&buf, detail.State{Err: "No VMs found for the applied filters"})
	assert.Contains(t, buf.String(), "No VMs found for the applied filters")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "★★★★★", Stars(9))
}

func TestPrintPricingTable_TruncatesLongCells(t *testing.T) {
	rows := []models.PricingRecord{{
		VMSize:      "D2s_v3",
		ProductName: "Virtual Machines Dsv3 Series Windows with a very long product description",
	}}
	cols, err := table.SelectColumns(table.PricingColumns(now), []string{"vmSize", "productName"})
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintPricingTable(&buf, rows, cols, TableOptions{})

	out := lines(buf.String())
	require.Len(t, out, 2)
	assert.Regexp(t, `^1\s+D2s_v3\s+Virtual Machines Dsv3 Series Windows with a v\.\.\.$`, out[1])
}

func TestPrintComparison(t *testing.T) {
	rows := []models.ComparisonRow{
		{
			Spec:               models.InstanceSpec{Region: "eastus", Name: "D2s_v3", VCPUs: 2, MemoryGB: 8},
			Matched:            true,
			EffectivePrice:     decimal.RequireFromString("0.192"),
			SpotSavings:        decimal.RequireFromString("0.0384"),
			Currency:           "USD",
			PriceType:          "Consumption",
			EffectiveStartDate: "2024-05-01",
			Ratings:            models.Ratings{VCPUs: 3, MemoryGB: 3, Price: 3, IOPSPerVCPU: 3, MemoryPerVCPU: 3, StoragePerVCPU: 3},
		},
		{Spec: models.InstanceSpec{Region: "westus", Name: "D4s_v3", VCPUs: 4}},
	}

	var buf bytes.Buffer
	PrintComparison(&buf, rows)
	out := lines(buf.String())
	require.Len(t, out, 3)
	assert.Regexp(t, `^D2s_v3 \(eastus\)\s+2 ★★★☆☆\s+8 GB ★★★☆☆\s+\$0\.192 ★★★☆☆\s+Consumption`, out[1])
	assert.Regexp(t, `\$0\.0384\s+-\s+05-01-2024 00:00:00$`, out[1])
	assert.Regexp(t, `\s-$`, out[2])
	assert.Regexp(t, `^D4s_v3 \(westus\)\s+4 ☆☆☆☆☆\s+N/A ☆☆☆☆☆\s+N/A ☆☆☆☆☆\s+N/A`, out[2])

	buf.Reset()
	PrintComparison(&buf, nil)
	assert.Equal(t, "No instances to compare.\n", buf.String())
}

func TestPrintChart(t *testing.T) {
	chart := compare.Chart{
		Labels: []string{"a (eastus)", "longer (westus)"},
		Series: []compare.Series{{Label: "vCPUs", Values: []float64{2, 4}, Palette: []compare.Color{compare.Red}}},
	}

	var buf bytes.Buffer
	PrintChart(&buf, chart)
	out := lines(buf.String())
	require.Len(t, out, 4)
	assert.Equal(t, "## vCPUs", out[1])
	assert.Equal(t, "  a (eastus)      "+strings.Repeat("█", 20)+" 2", out[2])
	assert.Equal(t, "  longer (westus) "+strings.Repeat("█", 40)+" 4", out[3])
}

func TestPrintVault(t *testing.T) {
	entries := []models.SelectionEntry{
		{ItemKey: "k1", Provider: "azure", RegionName: "eastus", VMSize: "D2s_v3", PriceType: "Consumption",
			PricePerHour: decimal.RequireFromString("0.096"), RetailPrice: decimal.RequireFromString("0.096"),
			EffectiveDate: "2024-05-01", SavedAt: now.Add(-2 * time.Hour)},
		{ItemKey: "k2", Provider: "aws", RegionName: "us-east-1", VMSize: "m5.large"},
	}

	var buf bytes.Buffer
	PrintVault(&buf, entries, now)
	out := buf.String()

	assert.Contains(t, out, "## AZURE (1)")
	assert.Contains(t, out, "## AWS (1)")
	assert.Contains(t, out, "## GCP (0)\nNo saved selections.")
	assert.Regexp(t, `1\s+eastus\s+D2s_v3\s+Consumption\s+\$0\.096\s+\$0\.096\s+May 1, 2024\s+2 hours ago`, out)
	assert.Regexp(t, `2\s+us-east-1\s+m5\.large\s+N/A\s+\$0\.00\s+\$0\.00\s+N/A\s+N/A`, out)

	buf.Reset()
	PrintVault(&buf, nil, now)
	assert.Contains(t, buf.String(), "The vault is empty.")
}

func TestPrintAPIStats(t *testing.T) {
	var buf bytes.Buffer
	PrintAPIStats(&buf, []stats.Row{{Service: "Backend", Target: "/api/azurevminfojune", Counts: stats.Counts{Success: 3, Failure: 1, Cache: 2}}})
	assert.Regexp(t, `Backend\s+/api/azurevminfojune\s+4\s+3\s+1\s+2\s+75\.0%`, buf.String())

	buf.Reset()
	PrintAPIStats(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestPrintRecommendation(t *testing.T) {
	var buf bytes.Buffer
	PrintRecommendation(&buf, "", errors.New("Failed to get AI recommendation: offline"))
	assert.Contains(t, buf.String(), "Failed to get AI recommendation: offline")
}

func TestUnicodeWidth(t *testing.T) {
	assert.Equal(t, 4, StringWidth("한글"))
	assert.Equal(t, "한글  |", PadString("한글", 6)+"|")
	assert.Equal(t, "abc...", TruncateString("abcdefghij", 6))
}
