package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/table"
	"github.com/younsl/pricenexus/pkg/vault"
)

// PrintVault prints one panel per provider. Positions are 1-based over the whole vault,
// so they can be passed back to vault remove and vault compare.
func PrintVault(w io.Writer, entries []models.SelectionEntry, now time.Time) {
	if len(entries) == 0 {
		PrintEmpty(w, "The vault is empty. Select rows with vault add or in browse mode.")
		return
	}

	position := make(map[string]int, len(entries))
	groups := make(map[string][]models.SelectionEntry)
	for i, e := range entries {
		position[e.ItemKey] = i + 1
		groups[e.Provider] = append(groups[e.Provider], e)
	}

	for _, name := range vault.ProviderNames(groups) {
		rows := groups[name]
		PrintHeading(w, fmt.Sprintf("%s (%d)", strings.ToUpper(name), len(rows)))
		if len(rows) == 0 {
			fmt.Fprintln(w, "No saved selections.")
			continue
		}

		tw := newTabWriter(w)
		fmt.Fprintln(tw, "#\tREGION\tVM SIZE\tTYPE\tPRICE/HOUR\tRETAIL\tEFFECTIVE\tSAVED")
		for _, e := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				position[e.ItemKey],
				orNA(e.RegionName),
				orNA(e.VMSize),
				orNA(e.PriceType),
				table.FormatPrice(e.PricePerHour, e.Currency),
				table.FormatPrice(e.RetailPrice, e.Currency),
				table.FormatDate(e.EffectiveDate),
				savedAgo(e.SavedAt, now),
			)
		}
		tw.Flush()
	}
}

func savedAgo(t, now time.Time) string {
	if t.IsZero() {
		return table.NotAvailable
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
