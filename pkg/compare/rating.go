package compare

import (
	"math"

	"github.com/younsl/pricenexus/internal/models"
)

// Stars maps a value to a 1-5 rating by min-max normalization.
// A degenerate range (max == min) is neutral and rates 3.
func Stars(value, lo, hi float64) int {
	n := 0.5
	if hi != lo {
		n = (value - lo) / (hi - lo)
	}
	return clampStars(n)
}

// InvertedStars rates a metric where lower is better, such as price
func InvertedStars(value, lo, hi float64) int {
	n := 0.5
	if hi != lo {
		n = (hi - value) / (hi - lo)
	}
	return clampStars(n)
}

func clampStars(n float64) int {
	if math.IsNaN(n) {
		n = 0.5
	}
	stars := int(math.Floor(n*4+0.5)) + 1
	return max(1, min(stars, 5))
}

type metric struct {
	get      func(models.ComparisonRow) float64
	set      func(*models.Ratings, int)
	inverted bool
}

var metrics = []metric{
	{get: func(r models.ComparisonRow) float64 { return r.Spec.VCPUs }, set: func(x *models.Ratings, s int) { x.VCPUs = s }},
	{get: func(r models.ComparisonRow) float64 { return r.Spec.MemoryGB }, set: func(x *models.Ratings, s int) { x.MemoryGB = s }},
	{get: func(r models.ComparisonRow) float64 { return r.EffectivePrice.InexactFloat64() }, set: func(x *models.Ratings, s int) { x.Price = s }, inverted: true},
	{get: func(r models.ComparisonRow) float64 { return r.IOPSPerVCPU }, set: func(x *models.Ratings, s int) { x.IOPSPerVCPU = s }},
	{get: func(r models.ComparisonRow) float64 { return r.MemoryPerVCPU }, set: func(x *models.Ratings, s int) { x.MemoryPerVCPU = s }},
	{get: func(r models.ComparisonRow) float64 { return r.StoragePerVCPU }, set: func(x *models.Ratings, s int) { x.StoragePerVCPU = s }},
}

// rate fills the ratings of every row against the bounds of the whole set
func rate(rows []models.ComparisonRow) {
	if len(rows) == 0 {
		return
	}
	for _, m := range metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			v := m.get(r)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		for i := range rows {
			v := m.get(rows[i])
			if m.inverted {
				m.set(&rows[i].Ratings, InvertedStars(v, lo, hi))
			} else {
				m.set(&rows[i].Ratings, Stars(v, lo, hi))
			}
		}
	}
}
