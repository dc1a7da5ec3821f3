package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/utils"
)

// NotAvailable is shown for absent cells
const NotAvailable = "N/A"

// NewRecordDays is the age under which a price row is marked new
const NewRecordDays = 30

// DefaultPricingColumns is the visible price list column set on start
var DefaultPricingColumns = []string{
	"regionName", "location", "vmSize", "productName", "priceType",
	"pricePerHour", "currency", "effectiveDate", "spotEligible",
}

// DefaultSpecColumns is the visible spec column set on start
var DefaultSpecColumns = []string{
	"Region", "Name", "Family", "Tier", "vCPUs", "MemoryGB",
	"CpuArchitecture", "AcceleratedNetworking", "LowPriority",
}

// IsNewRecord reports whether a row's effective date falls within the last 30 days
func IsNewRecord(effectiveDate string, now time.Time) bool {
	t, err := utils.ParseEffectiveDate(effectiveDate)
	if err != nil {
		return false
	}
	return utils.IsRecent(t, now, NewRecordDays)
}

// FormatPrice renders an amount with its currency symbol and between 2 and 5 fraction digits
func FormatPrice(d decimal.Decimal, currency string) string {
	fixed := d.Abs().StringFixed(5)
	intPart, frac, _ := strings.Cut(fixed, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = humanize.Comma(n)
	}

	sign := ""
	if d.IsNegative() && !d.Round(5).IsZero() {
		sign = "-"
	}
	return sign + currencySymbol(currency) + intPart + "." + frac
}

func currencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "", "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	case "INR":
		return "₹"
	default:
		return strings.ToUpper(currency) + " "
	}
}

// FormatDate renders an effective date as "Jan 2, 2006", or N/A when it cannot be parsed
func FormatDate(effectiveDate string) string {
	t, err := utils.ParseEffectiveDate(effectiveDate)
	if err != nil {
		return NotAvailable
	}
	return t.Format("Jan 2, 2006")
}

// YesNo renders a flag
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func textColumn[T any](key, label string, get func(T) string) Column[T] {
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Value:    func(r T) Value { return String(get(r)) },
		Format:   func(r T) string { return orNA(get(r)) },
	}
}

func numberColumn[T any](key, label string, get func(T) float64) Column[T] {
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Value:    func(r T) Value { return Number(get(r)) },
		Format:   func(r T) string { return formatNumber(get(r)) },
	}
}

func flagColumn[T any](key, label string, get func(T) bool) Column[T] {
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Value: func(r T) Value {
			if get(r) {
				return Number(1)
			}
			return Number(0)
		},
		Format: func(r T) string { return YesNo(get(r)) },
	}
}

// PricingColumns returns every price list column. now decides the NEW! marker.
func PricingColumns(now time.Time) Columns[models.PricingRecord] {
	type R = models.PricingRecord

	region := textColumn("regionName", "Region", func(r R) string { return r.RegionName })
	region.Format = func(r R) string { return orNA(utils.RegionDisplayName(r.RegionName)) }

	pricePerHour := Column[R]{
		Key:      "pricePerHour",
		Label:    "Price/Hour",
		Tooltip:  "Realized hourly price",
		Sortable: true,
		Value: func(r R) Value {
			if !r.PricePerHour.Valid {
				return Absent
			}
			return Number(r.PricePerHour.Decimal.InexactFloat64())
		},
		Format: func(r R) string {
			if !r.PricePerHour.Valid {
				return NotAvailable
			}
			return FormatPrice(r.PricePerHour.Decimal, r.Currency)
		},
	}

	retail := Column[R]{
		Key:      "retailPrice",
		Label:    "Retail Price",
		Tooltip:  "List price per unit",
		Sortable: true,
		Value:    func(r R) Value { return Number(r.RetailPrice.InexactFloat64()) },
		Format:   func(r R) string { return FormatPrice(r.RetailPrice, r.Currency) },
	}

	unit := Column[R]{
		Key:      "unitPrice",
		Label:    "Unit Price",
		Sortable: true,
		Value:    func(r R) Value { return Number(r.UnitPrice.InexactFloat64()) },
		Format:   func(r R) string { return FormatPrice(r.UnitPrice, r.Currency) },
	}

	effective := Column[R]{
		Key:      "effectiveDate",
		Label:    "Effective Date",
		Tooltip:  "Rows effective within the last 30 days are marked NEW!",
		Sortable: true,
		Value: func(r R) Value {
			t, err := utils.ParseEffectiveDate(r.EffectiveDate)
			if err != nil {
				return Absent
			}
			return Number(float64(t.Unix()))
		},
		Format: func(r R) string {
			s := FormatDate(r.EffectiveDate)
			if IsNewRecord(r.EffectiveDate, now) {
				s += " NEW!"
			}
			return s
		},
	}

	return NewColumns(
		region,
		textColumn("location", "Location", func(r R) string { return r.Location }),
		textColumn("vmSize", "VM Size", func(r R) string { return r.VMSize }),
		textColumn("meterName", "Meter", func(r R) string { return r.MeterName }),
		textColumn("productName", "Product", func(r R) string { return r.ProductName }),
		textColumn("skuName", "SKU", func(r R) string { return r.SKUName }),
		textColumn("priceType", "Price Type", func(r R) string { return r.PriceType }),
		textColumn("priceCategory", "Category", func(r R) string { return r.PriceCategory }),
		pricePerHour,
		retail,
		unit,
		textColumn("currency", "Currency", func(r R) string { return r.Currency }),
		effective,
		textColumn("unitOfMeasure", "Unit", func(r R) string { return r.UnitOfMeasure }),
		flagColumn("spotEligible", "Spot", func(r R) bool { return bool(r.SpotEligible) }),
		textColumn("productId", "Product ID", func(r R) string { return r.ProductID }),
		textColumn("meterId", "Meter ID", func(r R) string { return r.MeterID }),
	)
}

// SpecColumns returns every instance spec column
func SpecColumns() Columns[models.InstanceSpec] {
	type S = models.InstanceSpec

	region := textColumn("Region", "Region", func(s S) string { return s.Region })
	region.Format = func(s S) string { return orNA(utils.RegionDisplayName(s.Region)) }

	return NewColumns(
		region,
		textColumn("Name", "VM Size", func(s S) string { return s.Name }),
		textColumn("Family", "Family", func(s S) string { return s.Family }),
		textColumn("Tier", "Tier", func(s S) string { return s.Tier }),
		textColumn("Size", "Size", func(s S) string { return s.Size }),
		numberColumn("vCPUs", "vCPUs", func(s S) float64 { return s.VCPUs }),
		numberColumn("MemoryGB", "Memory (GB)", func(s S) float64 { return s.MemoryGB }),
		numberColumn("MemoryPervCPU", "Memory/vCPU", func(s S) float64 { return s.MemoryPerVCPU }),
		numberColumn("MaxDataDiskCount", "Max Disks", func(s S) float64 { return s.MaxDataDiskCount }),
		numberColumn("LocalTempStorageGB", "Temp Storage (GB)", func(s S) float64 { return s.LocalTempStorageGB }),
		numberColumn("UncachedDiskIOPS", "Disk IOPS", func(s S) float64 { return s.UncachedDiskIOPS }),
		numberColumn("MaxNetworkInterfaces", "Max NICs", func(s S) float64 { return s.MaxNetworkInterfaces }),
		textColumn("CpuArchitecture", "Architecture", func(s S) string { return s.CPUArchitecture }),
		flagColumn("AcceleratedNetworking", "Accel. Net", func(s S) bool { return bool(s.AcceleratedNetworking) }),
		flagColumn("PremiumIO", "Premium IO", func(s S) bool { return bool(s.PremiumIO) }),
		flagColumn("LowPriority", "Spot", func(s S) bool { return bool(s.LowPriority) }),
	)
}
