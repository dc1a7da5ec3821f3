package compare

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/pricenexus/internal/models"
)

func selection(region, size, retail string) models.SelectionEntry {
	return models.SelectionEntry{
		RegionName:   region,
		VMSize:       size,
		PriceType:    "Consumption",
		PricePerHour: decimal.Zero,
		RetailPrice:  decimal.RequireFromString(retail),
		UnitPrice:    decimal.RequireFromString(retail),
		Currency:     "USD",
	}
}

func TestGuard(t *testing.T) {
	assert.ErrorIs(t, Guard(0), ErrTooFewSelections)
	assert.ErrorIs(t, Guard(1), ErrTooFewSelections)
	assert.NoError(t, Guard(2))
	assert.EqualError(t, Guard(1), GuardMessage)
}

func TestStars(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi float64
		want          int
	}{
		{"degenerate range is neutral", 7, 7, 7, 3},
		{"minimum", 1, 1, 9, 1},
		{"maximum", 9, 1, 9, 5},
		{"midpoint", 5, 1, 9, 3},
		{"quarter rounds half up", 1.5, 1, 3, 2},
		{"below range clamps", -10, 0, 1, 1},
		{"above range clamps", 10, 0, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stars(tt.value, tt.lo, tt.hi))
		})
	}

	assert.Equal(t, 5, InvertedStars(1, 1, 9), "cheapest price rates 5")
	assert.Equal(t, 1, InvertedStars(9, 1, 9), "most expensive price rates 1")
	assert.Equal(t, 3, InvertedStars(4, 4, 4))
}

func TestCompute_SpotSavingsScenario(t *testing.T) {
	specs := []models.InstanceSpec{
		{Region: "eastus", Name: "D2s_v3", VCPUs: 2, MemoryGB: 8, LowPriority: true},
		{Region: "westus", Name: "D2s_v3", VCPUs: 2, MemoryGB: 8},
	}
	sels := []models.SelectionEntry{
		selection("eastus", "D2s_v3", "0.192"),
		selection("westus", "D2s_v3", "0.192"),
	}

	rows := Compute(specs, sels)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.True(t, r.Matched)
		assert.Equal(t, "0.192", r.EffectivePrice.String())
	}
	assert.True(t, rows[0].SpotSavings.Equal(decimal.RequireFromString("0.0384")))
	assert.True(t, rows[1].SpotSavings.IsZero())
	assert.True(t, rows[0].ReservationSavings.IsZero())
}

func TestCompute_AllEqualRatesThree(t *testing.T) {
	spec := models.InstanceSpec{Region: "eastus", Name: "D4", VCPUs: 4, MemoryGB: 16, UncachedDiskIOPS: 6400, LocalTempStorageGB: 32}
	other := spec
	other.Region = "westus"

	rows := Compute([]models.InstanceSpec{spec, other}, []models.SelectionEntry{
		selection("eastus", "D4", "0.2"),
		selection("westus", "D4", "0.2"),
	})

	want := models.Ratings{VCPUs: 3, MemoryGB: 3, Price: 3, IOPSPerVCPU: 3, MemoryPerVCPU: 3, StoragePerVCPU: 3}
	for _, r := range rows {
		assert.Equal(t, want, r.Ratings)
	}
}

func TestCompute_MinMaxAndInvertedPrice(t *testing.T) {
	specs := []models.InstanceSpec{
		{Region: "eastus", Name: "small", VCPUs: 2, MemoryGB: 4},
		{Region: "eastus", Name: "large", VCPUs: 16, MemoryGB: 64},
	}
	sels := []models.SelectionEntry{
		selection("eastus", "small", "0.1"),
		selection("eastus", "large", "0.8"),
	}

	rows := Compute(specs, sels)

	assert.Equal(t, 1, rows[0].Ratings.VCPUs)
	assert.Equal(t, 5, rows[1].Ratings.VCPUs)
	assert.Equal(t, 1, rows[0].Ratings.MemoryGB)
	assert.Equal(t, 5, rows[1].Ratings.MemoryGB)
	assert.Equal(t, 5, rows[0].Ratings.Price, "cheaper instance rates higher")
	assert.Equal(t, 1, rows[1].Ratings.Price)
}

func TestCompute_ZeroVCPUs(t *testing.T) {
	rows := Compute([]models.InstanceSpec{
		{Region: "eastus", Name: "odd", VCPUs: 0, MemoryGB: 8, UncachedDiskIOPS: 500, LocalTempStorageGB: 10},
	}, nil)
	require.Len(t, rows, 1)

	r := rows[0]
	for _, v := range []float64{r.IOPSPerVCPU, r.MemoryPerVCPU, r.StoragePerVCPU} {
		assert.Zero(t, v)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestCompute_UnmatchedAndPriceType(t *testing.T) {
	specs := []models.InstanceSpec{
		{Region: "eastus", Name: "E4", VCPUs: 4, PriceType: "Reservation", EffectiveDate: "2024-01-01"},
		{Region: "eastus", Name: "E8", VCPUs: 8, PriceType: "Consumption"},
	}
	reserved := selection("eastus", "E8", "1.0")
	reserved.PriceType = "Reservation"
	reserved.PricePerHour = decimal.RequireFromString("0.7")

	rows := Compute(specs, []models.SelectionEntry{reserved})

	assert.False(t, rows[0].Matched)
	assert.True(t, rows[0].EffectivePrice.IsZero())
	assert.True(t, rows[0].ReservationSavings.IsZero(), "no retail price, no savings")
	assert.Equal(t, "2024-01-01", rows[0].EffectiveStartDate)

	assert.True(t, rows[1].Matched)
	assert.Equal(t, "0.7", rows[1].EffectivePrice.String(), "a positive hourly price wins over retail")
	assert.Equal(t, "Reservation", rows[1].PriceType, "selection price type wins over the spec")
	assert.True(t, rows[1].ReservationSavings.Equal(decimal.RequireFromString("0.3")))
}

func TestCompute_Empty(t *testing.T) {
	assert.Empty(t, Compute(nil, nil))
}

func TestBuildChart(t *testing.T) {
	specs := make([]models.InstanceSpec, 0, 5)
	sels := make([]models.SelectionEntry, 0, 5)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		specs = append(specs, models.InstanceSpec{Region: "eastus", Name: name, VCPUs: 2, MemoryGB: 4})
		sels = append(sels, selection("eastus", name, "0.5"))
	}

	chart := BuildChart(Compute(specs, sels))

	require.Len(t, chart.Series, 3)
	assert.Equal(t, "vCPUs", chart.Series[0].Label)
	assert.Equal(t, "Memory GB", chart.Series[1].Label)
	assert.Equal(t, "Price/Hour", chart.Series[2].Label)
	assert.Equal(t, "a (eastus)", chart.Labels[0])
	assert.Equal(t, 0.5, chart.Series[2].Values[4])
	assert.Equal(t, chart.Series[0].ColorAt(0), chart.Series[0].ColorAt(4), "palette wraps around")
	assert.Equal(t, Gray, Series{}.ColorAt(3))
}
