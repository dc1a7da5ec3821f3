package models

import (
	"fmt"
	"net/url"
	"strings"
)

// filterField binds a query-string key to the struct field holding its value
type filterField struct {
	key   string
	value *string
}

// buildValues returns only the fields that carry a value.
// Empty fields are omitted so the backend never sees them as wildcards.
func buildValues(fields []filterField) url.Values {
	values := url.Values{}
	for _, f := range fields {
		if v := strings.TrimSpace(*f.value); v != "" {
			values.Set(f.key, v)
		}
	}
	return values
}

func setField(fields []filterField, key, value string) error {
	for _, f := range fields {
		if strings.EqualFold(f.key, key) {
			*f.value = strings.TrimSpace(value)
			return nil
		}
	}
	return fmt.Errorf("unknown filter %q (valid: %s)", key, strings.Join(fieldKeys(fields), ", "))
}

func fieldKeys(fields []filterField) []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}

func isZero(fields []filterField) bool {
	return len(buildValues(fields)) == 0
}

// PriceFilter is the sparse filter set of the price listing endpoint
type PriceFilter struct {
	Region          string
	VMSize          string
	PriceType       string
	MinPrice        string
	MaxPrice        string
	Spot            string
	Location        string
	MeterName       string
	SKUName         string
	UnitOfMeasure   string
	ProductID       string
	MeterID         string
	EffectiveAfter  string
	EffectiveBefore string
	ProductName     string
}

func (f *PriceFilter) fields() []filterField {
	return []filterField{
		{"region", &f.Region},
		{"vmSize", &f.VMSize},
		{"priceType", &f.PriceType},
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"spot", &f.Spot},
		{"location", &f.Location},
		{"meterName", &f.MeterName},
		{"skuName", &f.SKUName},
		{"unitOfMeasure", &f.UnitOfMeasure},
		{"productId", &f.ProductID},
		{"meterId", &f.MeterID},
		{"effectiveAfter", &f.EffectiveAfter},
		{"effectiveBefore", &f.EffectiveBefore},
		{"productName", &f.ProductName},
	}
}

// Values returns the query string parameters for the non-empty fields
func (f PriceFilter) Values() url.Values { return buildValues(f.fields()) }

// Set assigns a field by its query-string key
func (f *PriceFilter) Set(key, value string) error { return setField(f.fields(), key, value) }

// Keys lists the accepted query-string keys
func (f PriceFilter) Keys() []string { return fieldKeys(f.fields()) }

// IsZero reports whether no field is set
func (f PriceFilter) IsZero() bool { return isZero(f.fields()) }

// SpecFilter is the sparse filter set of the instance spec endpoint
type SpecFilter struct {
	Region                string
	Name                  string
	Family                string
	Tier                  string
	Size                  string
	MinVCPUs              string
	MaxVCPUs              string
	MinMemoryGB           string
	MaxMemoryGB           string
	AcceleratedNetworking string
	LowPriority           string
}

func (f *SpecFilter) fields() []filterField {
	return []filterField{
		{"region", &f.Region},
		{"name", &f.Name},
		{"family", &f.Family},
		{"tier", &f.Tier},
		{"size", &f.Size},
		{"minVCPUs", &f.MinVCPUs},
		{"maxVCPUs", &f.MaxVCPUs},
		{"minMemoryGB", &f.MinMemoryGB},
		{"maxMemoryGB", &f.MaxMemoryGB},
		{"acceleratedNetworking", &f.AcceleratedNetworking},
		{"lowPriority", &f.LowPriority},
	}
}

// Values returns the query string parameters for the non-empty fields
func (f SpecFilter) Values() url.Values { return buildValues(f.fields()) }

// Set assigns a field by its query-string key
func (f *SpecFilter) Set(key, value string) error { return setField(f.fields(), key, value) }

// Keys lists the accepted query-string keys
func (f SpecFilter) Keys() []string { return fieldKeys(f.fields()) }

// FamilyFilter selects the instance family listing
type FamilyFilter struct {
	Family string
}

func (f *FamilyFilter) fields() []filterField {
	return []filterField{{"family", &f.Family}}
}

// Values returns the query string parameters for the non-empty fields
func (f FamilyFilter) Values() url.Values { return buildValues(f.fields()) }

// VariantFilter drives the variants selector on the detail page
type VariantFilter struct {
	Region string
	Family string
	Tier   string
}

func (f *VariantFilter) fields() []filterField {
	return []filterField{
		{"region", &f.Region},
		{"family", &f.Family},
		{"tier", &f.Tier},
	}
}

// Values returns the query string parameters for the non-empty fields
func (f VariantFilter) Values() url.Values { return buildValues(f.fields()) }

// Set assigns a field by its query-string key
func (f *VariantFilter) Set(key, value string) error { return setField(f.fields(), key, value) }

// IsZero reports whether no field is set
func (f VariantFilter) IsZero() bool { return isZero(f.fields()) }

// Keys lists the accepted query-string keys
func (f VariantFilter) Keys() []string { return fieldKeys(f.fields()) }
