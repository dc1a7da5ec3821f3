package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectionEntry represents a row the user picked for comparison.
// Entries live in the comparison vault between sessions.
type SelectionEntry struct {
	ItemKey       string          `json:"itemKey"`
	Provider      string          `json:"provider"`
	RegionName    string          `json:"regionName"`
	VMSize        string          `json:"vmSize"`
	PriceType     string          `json:"priceType"`
	EffectiveDate string          `json:"effectiveDate"`
	PricePerHour  decimal.Decimal `json:"pricePerHour"`
	RetailPrice   decimal.Decimal `json:"retailPrice"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Currency      string          `json:"currency"`
	SavedAt       time.Time       `json:"savedAt"`
}

// NewSelectionEntry builds a vault entry from a fetched pricing record
func NewSelectionEntry(provider string, r PricingRecord, savedAt time.Time) SelectionEntry {
	if r.Provider != "" {
		provider = r.Provider
	}

	pricePerHour := decimal.Zero
	if r.PricePerHour.Valid {
		pricePerHour = r.PricePerHour.Decimal
	}

	return SelectionEntry{
		ItemKey:       r.ItemKey(),
		Provider:      provider,
		RegionName:    r.RegionName,
		VMSize:        r.VMSize,
		PriceType:     r.PriceType,
		EffectiveDate: r.EffectiveDate,
		PricePerHour:  pricePerHour,
		RetailPrice:   r.RetailPrice,
		UnitPrice:     r.UnitPrice,
		Currency:      r.Currency,
		SavedAt:       savedAt,
	}
}

// Ref returns the region/name pair used by the compare endpoints
func (e SelectionEntry) Ref() VMRef {
	return VMRef{Region: e.RegionName, Name: e.VMSize}
}
