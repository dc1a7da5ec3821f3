package models

import "github.com/shopspring/decimal"

// Ratings holds the 1-5 star score of each compared metric
type Ratings struct {
	VCPUs          int
	MemoryGB       int
	Price          int
	IOPSPerVCPU    int
	MemoryPerVCPU  int
	StoragePerVCPU int
}

// ComparisonRow represents an instance spec joined with its selected pricing and derived metrics
type ComparisonRow struct {
	Spec InstanceSpec

	// Matched is false when no selection entry shared the spec's region and size
	Matched bool

	PricePerHour       decimal.Decimal
	RetailPrice        decimal.Decimal
	UnitPrice          decimal.Decimal
	Currency           string
	PriceType          string
	EffectiveStartDate string
	EffectivePrice     decimal.Decimal

	IOPSPerVCPU    float64
	MemoryPerVCPU  float64
	StoragePerVCPU float64

	SpotSavings        decimal.Decimal
	ReservationSavings decimal.Decimal

	Ratings Ratings
}

// Label returns the "name (region)" caption used in tables and charts
func (r ComparisonRow) Label() string {
	return r.Spec.Name + " (" + r.Spec.Region + ")"
}
