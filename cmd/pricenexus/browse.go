package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/compare"
	"github.com/younsl/pricenexus/pkg/detail"
	"github.com/younsl/pricenexus/pkg/formatter"
	"github.com/younsl/pricenexus/pkg/provider"
	"github.com/younsl/pricenexus/pkg/store"
	"github.com/younsl/pricenexus/pkg/table"
	"github.com/younsl/pricenexus/pkg/vault"
	"go.uber.org/zap"
)

const browseHelp = `Commands:
  set <key> <value>   change a filter (refreshes after a short pause)
  unset <key>         clear a filter
  filters             show the filter in effect
  apply               refresh now
  reset               clear every filter
  sort <column>       sort by a column, again to reverse
  cols <a,b,c>        choose the visible columns
  next | prev | page <n>
  sel <row...>        add or remove rows from the comparison vault
  vault               show the vault
  compare             compare the vault entries of this provider
  info <row>          show the details of a row's VM
  vset <key> <value>  change a variants filter of the open VM (region, family, tier)
  vunset <key>        clear a variants filter
  vclear              clear every variants filter
  vsel <size>         switch the open VM to another size
  help | quit`

func newBrowseCmd(a *app, root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse prices interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.registry.Get(root.providerName)
			if err != nil {
				return err
			}
			v, err := a.openVault()
			if err != nil {
				return err
			}
			b := &browser{
				app:     a,
				p:       p,
				vault:   v,
				ds:      a.store.Provider(p.Name()).Pricing,
				columns: table.DefaultPricingColumns,
				out:     a.out,
			}
			return b.run(cmd.Context(), a.in)
		},
	}
}

// browser is the interactive price list. Filter edits refetch through a debounced FilterPanel.
type browser struct {
	app   *app
	p     provider.Provider
	vault *vault.Vault
	ds    *store.Dataset[models.PricingRecord]
	panel *store.FilterPanel

	mu       sync.Mutex
	explorer *detail.Explorer
	sort     table.SortState
	columns []string
	took    time.Duration
	out     io.Writer
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	b.panel = store.NewFilterPanel(ctx, b.app.cfg.Debounce, b.load)
	defer b.panel.Close()
	defer b.closeExplorer()

	fmt.Fprintf(b.out, "Browsing %s prices. Type help for commands.\n", b.p.Name())
	b.panel.Apply()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := b.exec(ctx, fields[0], fields[1:]); err != nil {
			var shown *shownError
			if errors.As(err, &shown) {
				continue
			}
			b.mu.Lock()
			formatter.PrintError(b.out, err.Error())
			b.mu.Unlock()
		}
	}
}

// load is the FilterPanel callback
func (b *browser) load(ctx context.Context, f models.PriceFilter) {
	b.app.logger.Debug("loading prices", zap.Any("filter", f.Values()))

	start := time.Now()
	snap := b.ds.Load(ctx, func(ctx context.Context) ([]models.PricingRecord, error) {
		return b.p.ListPrices(ctx, f)
	})
	if snap.Superseded {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.took = time.Since(start)
	b.renderLocked()
}

func (b *browser) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(b.out, browseHelp)
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: set <key> <value> (keys: %s)", strings.Join(models.PriceFilter{}.Keys(), ", "))
		}
		return b.panel.Set(args[0], strings.Join(args[1:], " "))
	case "unset":
		if len(args) != 1 {
			return fmt.Errorf("usage: unset <key>")
		}
		return b.panel.Set(args[0], "")
	case "filters":
		f := b.panel.Filter()
		if f.IsZero() {
			fmt.Fprintln(b.out, "No filters set.")
			return nil
		}
		for key, values := range f.Values() {
			fmt.Fprintf(b.out, "  %s = %s\n", key, values[0])
		}
	case "apply":
		b.panel.Apply()
	case "reset":
		b.panel.Reset()
	case "sort":
		if len(args) != 1 {
			return fmt.Errorf("usage: sort <column>")
		}
		b.mu.Lock()
		b.sort.Click(args[0])
		b.renderLocked()
		b.mu.Unlock()
	case "cols":
		if len(args) != 1 {
			return fmt.Errorf("usage: cols <a,b,c>")
		}
		cols := strings.Split(args[0], ",")
		if _, err := table.SelectColumns(table.PricingColumns(time.Now()), cols); err != nil {
			return err
		}
		b.mu.Lock()
		b.columns = cols
		b.renderLocked()
		b.mu.Unlock()
	case "next", "prev", "page":
		return b.turnPage(cmd, args)
	case "sel":
		return b.toggle(args)
	case "vault":
		b.mu.Lock()
		formatter.PrintVault(b.out, b.vault.Entries(), time.Now())
		b.mu.Unlock()
	case "compare":
		var entries []models.SelectionEntry
		for _, e := range b.vault.Entries() {
			if e.Provider == b.p.Name() {
				entries = append(entries, e)
			}
		}
		if err := compare.Guard(len(entries)); err != nil {
			return err
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.app.runComparison(ctx, entries, true, true)
	case "info":
		return b.info(ctx, args)
	case "vset", "vunset":
		return b.setVariantFilter(ctx, cmd, args)
	case "vclear":
		e, err := b.openExplorer()
		if err != nil {
			return err
		}
		e.ClearFilters()
		b.mu.Lock()
		defer b.mu.Unlock()
		formatter.PrintVariants(b.out, e.State())
	case "vsel":
		if len(args) != 1 {
			return fmt.Errorf("usage: vsel <size>")
		}
		e, err := b.openExplorer()
		if err != nil {
			return err
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		withSpinner("Loading VM data ...", func() { err = e.Select(ctx, args[0]) })
		return printExplorer(b.out, e, err)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func (b *browser) turnPage(cmd string, args []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ok bool
	switch cmd {
	case "next":
		ok = b.ds.NextPage()
	case "prev":
		ok = b.ds.PrevPage()
	default:
		if len(args) != 1 {
			return fmt.Errorf("usage: page <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		ok = b.ds.GoToPage(n)
	}
	if !ok {
		snap := b.ds.Snapshot()
		return fmt.Errorf("no such page (1-%d)", snap.Pager.TotalPages())
	}
	b.renderLocked()
	return nil
}

// rowsLocked returns the rows in display order
func (b *browser) rowsLocked() []models.PricingRecord {
	return table.Sort(b.ds.Rows(), table.PricingColumns(time.Now()), b.sort)
}

func (b *browser) row(ref string) (models.PricingRecord, error) {
	rows := b.rowsLocked()
	picked, err := pickRows(rows, []string{ref})
	if err != nil {
		return models.PricingRecord{}, err
	}
	return picked[0], nil
}

func (b *browser) toggle(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sel <row...>")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ref := range args {
		r, err := b.row(ref)
		if err != nil {
			return err
		}
		selected, err := b.vault.Toggle(b.p.Name(), r)
		if err != nil {
			return err
		}
		verb := "Removed"
		if selected {
			verb = "Saved"
		}
		fmt.Fprintf(b.out, "%s %s (%s)\n", verb, r.VMSize, r.RegionName)
	}
	b.renderLocked()
	return nil
}

func (b *browser) info(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: info <row>")
	}
	if b.p.Name() != provider.AzureName {
		return fmt.Errorf("details are only available for %s", provider.AzureName)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.row(args[0])
	if err != nil {
		return err
	}
	if b.explorer != nil {
		b.explorer.Close()
	}
	e := detail.NewExplorer(b.app.azure, r.RegionName, r.VMSize)
	b.explorer = e

	withSpinner("Loading VM data ...", func() { err = e.Init(ctx) })
	return printExplorer(b.out, e, err)
}

// openExplorer returns the explorer of the last info command
func (b *browser) openExplorer() (*detail.Explorer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.explorer == nil || b.explorer.State().Selected == nil {
		return nil, fmt.Errorf("no VM is open, use info <row> first")
	}
	return b.explorer, nil
}

func (b *browser) closeExplorer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.explorer != nil {
		b.explorer.Close()
		b.explorer = nil
	}
}

// setVariantFilter edits the open VM's variants filter. The variants are re-queried after
// a short pause and the detail view is printed again.
func (b *browser) setVariantFilter(ctx context.Context, cmd string, args []string) error {
	var key, value string
	switch {
	case cmd == "vset" && len(args) >= 2:
		key, value = args[0], strings.Join(args[1:], " ")
	case cmd == "vunset" && len(args) == 1:
		key = args[0]
	default:
		return fmt.Errorf("usage: vset <key> <value> | vunset <key> (keys: %s)", strings.Join(models.VariantFilter{}.Keys(), ", "))
	}

	e, err := b.openExplorer()
	if err != nil {
		return err
	}
	return e.SetFilter(ctx, key, value, func(err error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.explorer != e {
			return
		}
		if err := printExplorer(b.out, e, err); err != nil {
			b.app.logger.Debug("variants filter failed", zap.Error(err))
		}
	})
}

func (b *browser) renderLocked() {
	snap := b.ds.Snapshot()
	state := formatter.State{Loading: snap.Loading, Err: snap.Err, Empty: len(snap.Rows) == 0}
	fmt.Fprintln(b.out)
	if formatter.PrintState(b.out, state, "No pricing data found.") {
		return
	}

	now := time.Now()
	cols, err := table.SelectColumns(table.PricingColumns(now), b.columns)
	if err != nil {
		formatter.PrintError(b.out, err.Error())
		return
	}
	pager := snap.Pager
	start, _ := pager.Bounds()
	rows := table.Sort(snap.Rows, table.PricingColumns(now), b.sort)

	formatter.PrintTimestamp(b.out, now, b.took)
	formatter.PrintPricingTable(b.out, table.PageOf(rows, &pager), cols, formatter.TableOptions{
		Offset:   start,
		Sort:     b.sort,
		Selected: b.vault.Contains,
	})
	formatter.PrintPageFooter(b.out, &pager)
}
