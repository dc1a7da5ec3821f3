package compare

import "github.com/younsl/pricenexus/internal/models"

// Color names a chart colour; renderers map it to a terminal attribute
type Color string

const (
	Red     Color = "red"
	Blue    Color = "blue"
	Yellow  Color = "yellow"
	Cyan    Color = "cyan"
	Magenta Color = "magenta"
	Orange  Color = "orange"
	Gray    Color = "gray"
)

// Series is one dataset of the comparison chart
type Series struct {
	Label   string
	Values  []float64
	Palette []Color
}

// ColorAt returns the colour of the i-th instance. Palettes repeat when there are more instances than colours.
func (s Series) ColorAt(i int) Color {
	if len(s.Palette) == 0 {
		return Gray
	}
	return s.Palette[i%len(s.Palette)]
}

// Chart is the comparison chart model: one label per instance and three fixed series
type Chart struct {
	Labels []string
	Series []Series
}

var (
	vcpuPalette   = []Color{Red, Blue, Yellow, Cyan}
	memoryPalette = []Color{Magenta, Orange, Gray, Blue}
	pricePalette  = []Color{Red, Blue, Yellow, Cyan}
)

// BuildChart builds the vCPUs, Memory GB and Price/Hour series from compared rows
func BuildChart(rows []models.ComparisonRow) Chart {
	chart := Chart{
		Labels: make([]string, 0, len(rows)),
		Series: []Series{
			{Label: "vCPUs", Palette: vcpuPalette},
			{Label: "Memory GB", Palette: memoryPalette},
			{Label: "Price/Hour", Palette: pricePalette},
		},
	}
	for _, r := range rows {
		chart.Labels = append(chart.Labels, r.Label())
		chart.Series[0].Values = append(chart.Series[0].Values, r.Spec.VCPUs)
		chart.Series[1].Values = append(chart.Series[1].Values, r.Spec.MemoryGB)
		chart.Series[2].Values = append(chart.Series[2].Values, r.EffectivePrice.InexactFloat64())
	}
	return chart
}
