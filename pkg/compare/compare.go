package compare

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"github.com/younsl/pricenexus/internal/models"
)

// MinSelections is the smallest selection set that can be compared
const MinSelections = 2

// GuardMessage is the alert shown when a comparison is refused
const GuardMessage = "Please select at least two items to compare."

// ErrTooFewSelections is returned by Guard when fewer than two rows are selected.
// Its message is the alert text.
var ErrTooFewSelections = errors.New(GuardMessage)

var (
	spotSavingsRate        = decimal.RequireFromString("0.2")
	reservationSavingsRate = decimal.RequireFromString("0.3")
)

// Guard refuses a comparison over fewer than MinSelections entries
func Guard(selected int) error {
	if selected < MinSelections {
		return ErrTooFewSelections
	}
	return nil
}

// Compute joins each spec with its selected price row, derives per-vCPU metrics and
// savings, and rates every metric across the whole set. Output order follows specs.
func Compute(specs []models.InstanceSpec, selections []models.SelectionEntry) []models.ComparisonRow {
	rows := make([]models.ComparisonRow, 0, len(specs))
	for _, spec := range specs {
		rows = append(rows, enrich(spec, findSelection(selections, spec)))
	}
	rate(rows)
	return rows
}

func findSelection(selections []models.SelectionEntry, spec models.InstanceSpec) *models.SelectionEntry {
	for i := range selections {
		if selections[i].RegionName == spec.Region && selections[i].VMSize == spec.Name {
			return &selections[i]
		}
	}
	return nil
}

func enrich(spec models.InstanceSpec, sel *models.SelectionEntry) models.ComparisonRow {
	row := models.ComparisonRow{
		Spec:               spec,
		PricePerHour:       decimal.Zero,
		RetailPrice:        decimal.Zero,
		UnitPrice:          decimal.Zero,
		PriceType:          spec.PriceType,
		EffectiveStartDate: spec.EffectiveDate,
	}
	if sel != nil {
		row.Matched = true
		row.PricePerHour = sel.PricePerHour
		row.RetailPrice = sel.RetailPrice
		row.UnitPrice = sel.UnitPrice
		row.Currency = sel.Currency
		if sel.PriceType != "" {
			row.PriceType = sel.PriceType
		}
		if sel.EffectiveDate != "" {
			row.EffectiveStartDate = sel.EffectiveDate
		}
	}

	row.EffectivePrice = row.RetailPrice
	if row.PricePerHour.IsPositive() {
		row.EffectivePrice = row.PricePerHour
	}

	row.IOPSPerVCPU = perVCPU(spec.UncachedDiskIOPS, spec.VCPUs)
	row.MemoryPerVCPU = perVCPU(spec.MemoryGB, spec.VCPUs)
	row.StoragePerVCPU = perVCPU(spec.LocalTempStorageGB, spec.VCPUs)

	row.SpotSavings = decimal.Zero
	if spec.LowPriority {
		row.SpotSavings = row.RetailPrice.Mul(spotSavingsRate)
	}
	row.ReservationSavings = decimal.Zero
	if row.PriceType == "Reservation" {
		row.ReservationSavings = row.RetailPrice.Mul(reservationSavingsRate)
	}

	return row
}

// perVCPU divides by the vCPU count, yielding 0 instead of NaN or Inf
func perVCPU(v, vcpus float64) float64 {
	if vcpus <= 0 {
		return 0
	}
	r := v / vcpus
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
