package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/table"
)

// TableOptions controls the row prefix columns of a data table
type TableOptions struct {
	// Offset is the absolute index of the first row, used for the "#" column
	Offset int

	// Sort marks the sorted column header with ▲ or ▼
	Sort table.SortState

	// Selected, when set, adds the compare-mode SEL column
	Selected func(itemKey string) bool
}

// PrintPricingTable prints one page of price rows
func PrintPricingTable(w io.Writer, rows []models.PricingRecord, cols []table.Column[models.PricingRecord], opts TableOptions) {
	printTable(w, rows, cols, opts, func(r models.PricingRecord) string { return r.ItemKey() })
}

// PrintSpecTable prints one page of instance specs
func PrintSpecTable(w io.Writer, rows []models.InstanceSpec, cols []table.Column[models.InstanceSpec], opts TableOptions) {
	opts.Selected = nil
	printTable(w, rows, cols, opts, nil)
}

func printTable[T any](w io.Writer, rows []T, cols []table.Column[T], opts TableOptions, key func(T) string) {
	tw := newTabWriter(w)

	header := []string{"#"}
	if opts.Selected != nil {
		header = append(header, "SEL")
	}
	for _, col := range cols {
		label := strings.ToUpper(col.Label)
		if ind := opts.Sort.Indicator(col.Key); ind != "" {
			label += " " + ind
		}
		header = append(header, label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, row := range rows {
		cells := []string{strconv.Itoa(opts.Offset + i + 1)}
		if opts.Selected != nil {
			cells = append(cells, checkbox(opts.Selected(key(row))))
		}
		for _, col := range cols {
			cells = append(cells, cell(col.Format(row)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// PrintPageFooter prints the pagination line under a table
func PrintPageFooter(w io.Writer, p *table.Pager) {
	var nav []string
	if p.HasPrev() {
		nav = append(nav, "prev")
	}
	if p.HasNext() {
		nav = append(nav, "next")
	}
	fmt.Fprintf(w, "Page %d of %d (%d rows)", p.Page(), p.TotalPages(), p.Total())
	if len(nav) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(nav, "|"))
	}
	fmt.Fprintln(w)
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// cell keeps tabs and newlines in backend strings from breaking the table layout
// maxCellWidth bounds long meter and product names
const maxCellWidth = 48

func cell(s string) string {
	if s == "" {
		return table.NotAvailable
	}
	return TruncateString(strings.NewReplacer("\t", " ", "\n", " ").Replace(s), maxCellWidth)
}
