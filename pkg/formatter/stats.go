package formatter

import (
	"fmt"
	"io"

	"github.com/younsl/pricenexus/pkg/stats"
)

// PrintAPIStats prints the statistics of backend and pricing API calls
func PrintAPIStats(w io.Writer, rows []stats.Row) {
	if len(rows) == 0 {
		return
	}

	PrintHeading(w, "API Call Statistics")

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "SERVICE\tTARGET\tAPI CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
			r.Service,
			r.Target,
			r.Total(),
			r.Success,
			r.Failure,
			r.Cache,
			r.SuccessRate(),
		)
	}
	tw.Flush()
}
