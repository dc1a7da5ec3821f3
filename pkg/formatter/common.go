package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

// newTabWriter returns the kubectl style table writer shared by every renderer
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

// PrintTimestamp prints when a fetch finished and how long it took
func PrintTimestamp(w io.Writer, fetchedAt time.Time, took time.Duration) {
	fmt.Fprintf(w, "Fetched at %s (took %.2fs)\n", fetchedAt.Format("2006-01-02 15:04:05"), took.Seconds())
}

// PrintError prints a display error in red
func PrintError(w io.Writer, msg string) {
	color.New(color.FgRed).Fprintln(w, msg)
}

// PrintEmpty prints the placeholder shown instead of an empty table
func PrintEmpty(w io.Writer, msg string) {
	fmt.Fprintln(w, msg)
}

// PrintHeading prints a section title
func PrintHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n## %s\n", title)
}

// State is the load state of a dataset view
type State struct {
	Loading bool
	Err     string
	Empty   bool
}

// PrintState prints the loading, error or empty message of a view.
// It reports whether a message was printed, in which case the table should be skipped.
func PrintState(w io.Writer, s State, emptyMsg string) bool {
	switch {
	case s.Loading:
		fmt.Fprintln(w, "Loading...")
	case s.Err != "":
		PrintError(w, s.Err)
	case s.Empty:
		PrintEmpty(w, emptyMsg)
	default:
		return false
	}
	return true
}
