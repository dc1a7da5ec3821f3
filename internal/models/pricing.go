package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PricingRecord represents one row of a provider's price list
type PricingRecord struct {
	ID            string              `json:"_id,omitempty"`
	Provider      string              `json:"provider,omitempty"`
	RegionName    string              `json:"regionName"`
	Location      string              `json:"location"`
	VMSize        string              `json:"vmSize"`
	MeterName     string              `json:"meterName"`
	ProductName   string              `json:"productName"`
	SKUName       string              `json:"skuName"`
	PriceType     string              `json:"priceType"`
	PriceCategory string              `json:"priceCategory,omitempty"`
	PricePerHour  decimal.NullDecimal `json:"pricePerHour"`
	RetailPrice   decimal.Decimal     `json:"retailPrice"`
	UnitPrice     decimal.Decimal     `json:"unitPrice"`
	Currency      string              `json:"currency"`
	EffectiveDate string              `json:"effectiveDate"` // Raw backend value, see utils.ParseEffectiveDate
	UnitOfMeasure string              `json:"unitOfMeasure"`
	SpotEligible  FlexBool            `json:"spotEligible"`
	ProductID     string              `json:"productId"`
	MeterID       string              `json:"meterId"`
}

// ItemKey returns the composite identity of the record.
// Size names repeat across pricing tiers, so region and size alone are not unique.
func (r PricingRecord) ItemKey() string {
	return fmt.Sprintf("%s-%s-%s-%s", r.RegionName, r.VMSize, r.PriceType, r.EffectiveDate)
}

// FlexBool decodes booleans the backend sends either as JSON bools or as "Yes"/"No" strings
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean value %s", string(data))
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
