package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/compare"
	"github.com/younsl/pricenexus/pkg/table"
	"github.com/younsl/pricenexus/pkg/utils"
)

const maxStars = 5

// Stars renders a 1-5 rating as filled and empty stars
func Stars(n int) string {
	n = max(0, min(n, maxStars))
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}

// PrintComparison prints the compared instances with their derived metrics and ratings
func PrintComparison(w io.Writer, rows []models.ComparisonRow) {
	if len(rows) == 0 {
		PrintEmpty(w, "No instances to compare.")
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "INSTANCE\tVCPUS\tMEMORY\tPRICE/HOUR\tTYPE\tIOPS/VCPU\tMEM/VCPU\tSTORAGE/VCPU\tSPOT SAVINGS\tRESERVED SAVINGS\tEFFECTIVE START")
	for _, r := range rows {
		price := table.NotAvailable
		if r.Matched {
			price = table.FormatPrice(r.EffectivePrice, r.Currency)
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s %s\t%s %s\t%s\t%.0f %s\t%.2f %s\t%.1f %s\t%s\t%s\t%s\n",
			r.Label(),
			number(r.Spec.VCPUs), Stars(r.Ratings.VCPUs),
			gb(r.Spec.MemoryGB), Stars(r.Ratings.MemoryGB),
			price, Stars(r.Ratings.Price),
			orNA(r.PriceType),
			r.IOPSPerVCPU, Stars(r.Ratings.IOPSPerVCPU),
			r.MemoryPerVCPU, Stars(r.Ratings.MemoryPerVCPU),
			r.StoragePerVCPU, Stars(r.Ratings.StoragePerVCPU),
			savings(r.SpotSavings, r.Currency),
			savings(r.ReservationSavings, r.Currency),
			effectiveStart(r.EffectiveStartDate),
		)
	}
	tw.Flush()
}

// PrintRecommendation prints the AI recommendation, or the error that replaced it
func PrintRecommendation(w io.Writer, text string, err error) {
	PrintHeading(w, "AI Recommendation")
	if err != nil {
		PrintError(w, err.Error())
		return
	}
	fmt.Fprintln(w, text)
}

func savings(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return "-"
	}
	return table.FormatPrice(d, currency)
}

func effectiveStart(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return utils.FormatEffectiveDate(s)
}

// chartWidth is the bar length of the largest value
const chartWidth = 40

var chartColors = map[compare.Color]color.Attribute{
	compare.Red:     color.FgRed,
	compare.Blue:    color.FgBlue,
	compare.Yellow:  color.FgYellow,
	compare.Cyan:    color.FgCyan,
	compare.Magenta: color.FgMagenta,
	compare.Orange:  color.FgHiRed,
	compare.Gray:    color.FgHiBlack,
}

// PrintChart prints each series of the comparison chart as horizontal bars
func PrintChart(w io.Writer, chart compare.Chart) {
	labelWidth := 0
	for _, l := range chart.Labels {
		labelWidth = max(labelWidth, StringWidth(l))
	}

	for _, s := range chart.Series {
		PrintHeading(w, s.Label)

		peak := 0.0
		for _, v := range s.Values {
			peak = max(peak, v)
		}
		for i, v := range s.Values {
			n := 0
			if peak > 0 {
				n = int(v / peak * chartWidth)
			}
			if v > 0 && n == 0 {
				n = 1
			}
			label := ""
			if i < len(chart.Labels) {
				label = chart.Labels[i]
			}
			fmt.Fprintf(w, "  %s ", PadString(label, labelWidth))
			color.New(chartColors[s.ColorAt(i)]).Fprint(w, strings.Repeat("█", n))
			fmt.Fprintf(w, " %s\n", formatValue(v))
		}
	}
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.4g", v)
}
