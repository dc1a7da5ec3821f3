package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/formatter"
	"github.com/younsl/pricenexus/pkg/provider"
	"github.com/younsl/pricenexus/pkg/store"
	"github.com/younsl/pricenexus/pkg/table"
)

// viewFlags are the sort, paging and column flags shared by the table commands
type viewFlags struct {
	sortKey string
	desc    bool
	page    int
	columns []string
	filters []string
}

func (v *viewFlags) register(cmd *cobra.Command, defaultColumns []string) {
	cmd.Flags().StringVar(&v.sortKey, "sort", "", "Column key to sort by")
	cmd.Flags().BoolVar(&v.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&v.page, "page", 1, "Page to show")
	cmd.Flags().StringSliceVar(&v.columns, "columns", defaultColumns, "Visible columns")
	cmd.Flags().StringArrayVarP(&v.filters, "filter", "f", nil, "Filter as key=value (repeatable)")
}

func (v *viewFlags) sortState() table.SortState {
	if v.sortKey == "" {
		return table.SortState{}
	}
	s := table.SortState{Key: v.sortKey}
	if v.desc {
		s.Direction = table.Descending
	}
	return s
}

// setter is implemented by every filter type
type setter interface {
	Set(key, value string) error
}

func applyFilterArgs(f setter, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, expected key=value", arg)
		}
		if err := f.Set(strings.TrimSpace(key), value); err != nil {
			return err
		}
	}
	return nil
}

// priceFlags holds the common price filter shortcuts
type priceFlags struct {
	region    string
	vmSize    string
	priceType string
	minPrice  string
	maxPrice  string
}

func (p *priceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.region, "region", "r", "", "Region code")
	cmd.Flags().StringVarP(&p.vmSize, "vm-size", "s", "", "VM size (substring match on the backend)")
	cmd.Flags().StringVar(&p.priceType, "price-type", "", "Pricing type (Consumption, Reservation, DevTestConsumption)")
	cmd.Flags().StringVar(&p.minPrice, "min-price", "", "Minimum hourly price")
	cmd.Flags().StringVar(&p.maxPrice, "max-price", "", "Maximum hourly price")
}

func (p *priceFlags) filter(extra []string) (models.PriceFilter, error) {
	f := models.PriceFilter{
		Region:    p.region,
		VMSize:    p.vmSize,
		PriceType: p.priceType,
		MinPrice:  p.minPrice,
		MaxPrice:  p.maxPrice,
	}
	err := applyFilterArgs(&f, extra)
	return f, err
}

func newPricesCmd(a *app, root *rootFlags) *cobra.Command {
	view := &viewFlags{}
	pf := &priceFlags{}
	var compareMode bool

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "List VM prices",
		Long: `List VM prices of the selected provider.

Filter keys: ` + strings.Join(models.PriceFilter{}.Keys(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pf.filter(view.filters)
			if err != nil {
				return err
			}
			p, err := a.registry.Get(root.providerName)
			if err != nil {
				return err
			}

			ds := a.store.Provider(p.Name()).Pricing
			snap, took := loadPrices(cmd.Context(), ds, p, f)
			var selected func(string) bool
			if compareMode {
				v, err := a.openVault()
				if err != nil {
					return err
				}
				selected = v.Contains
			}
			return a.showPrices(ds, snap, took, view, selected)
		},
	}
	view.register(cmd, table.DefaultPricingColumns)
	pf.register(cmd)
	cmd.Flags().BoolVar(&compareMode, "compare", false, "Show the SEL column marking rows saved in the vault")
	return cmd
}

func loadPrices(ctx context.Context, ds *store.Dataset[models.PricingRecord], p provider.Provider, f models.PriceFilter) (store.Snapshot[models.PricingRecord], time.Duration) {
	var snap store.Snapshot[models.PricingRecord]
	took := withSpinner("Fetching pricing data ...", func() {
		snap = ds.Load(ctx, func(ctx context.Context) ([]models.PricingRecord, error) {
			return p.ListPrices(ctx, f)
		})
	})
	return snap, took
}

// sortedPrices returns the dataset rows in the order the table shows them
func sortedPrices(rows []models.PricingRecord, view *viewFlags, now time.Time) []models.PricingRecord {
	return table.Sort(rows, table.PricingColumns(now), view.sortState())
}

func (a *app) showPrices(ds *store.Dataset[models.PricingRecord], snap store.Snapshot[models.PricingRecord], took time.Duration, view *viewFlags, selected func(string) bool) error {
	now := time.Now()
	cols, err := table.SelectColumns(table.PricingColumns(now), view.columns)
	if err != nil {
		return err
	}

	state := formatter.State{Loading: snap.Loading, Err: snap.Err, Empty: len(snap.Rows) == 0}
	if formatter.PrintState(a.out, state, "No pricing data found.") {
		return nil
	}

	if view.page > 1 && !ds.GoToPage(view.page) {
		return fmt.Errorf("page %d is out of range (1-%d)", view.page, snap.Pager.TotalPages())
	}
	pager := ds.Snapshot().Pager
	start, _ := pager.Bounds()

	formatter.PrintTimestamp(a.out, time.Now(), took)
	formatter.PrintPricingTable(a.out, table.PageOf(sortedPrices(snap.Rows, view, now), &pager), cols, formatter.TableOptions{
		Offset:   start,
		Sort:     view.sortState(),
		Selected: selected,
	})
	formatter.PrintPageFooter(a.out, &pager)
	return nil
}

func newSpecsCmd(a *app, root *rootFlags) *cobra.Command {
	view := &viewFlags{}
	var region, name, family string
	var byFamily bool

	cmd := &cobra.Command{
		Use:   "specs",
		Short: "List VM specifications",
		Long: `List VM specifications of the selected provider.

Filter keys: ` + strings.Join(models.SpecFilter{}.Keys(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := models.SpecFilter{Region: region, Name: name, Family: family}
			if err := applyFilterArgs(&f, view.filters); err != nil {
				return err
			}
			p, err := a.registry.Get(root.providerName)
			if err != nil {
				return err
			}

			data := a.store.Provider(p.Name())
			ds := data.VMInfo
			fetch := func(ctx context.Context) ([]models.InstanceSpec, error) {
				return p.ListSpecs(ctx, f)
			}
			if byFamily {
				azure, ok := p.(*provider.Azure)
				if !ok {
					return fmt.Errorf("--by-family is only available for %s", provider.AzureName)
				}
				ds = data.FamilyInfo
				fetch = func(ctx context.Context) ([]models.InstanceSpec, error) {
					return azure.ListFamily(ctx, models.FamilyFilter{Family: f.Family})
				}
			}

			var snap store.Snapshot[models.InstanceSpec]
			took := withSpinner("Fetching VM data ...", func() {
				snap = ds.Load(cmd.Context(), fetch)
			})

			cols, err := table.SelectColumns(table.SpecColumns(), view.columns)
			if err != nil {
				return err
			}
			state := formatter.State{Loading: snap.Loading, Err: snap.Err, Empty: len(snap.Rows) == 0}
			if formatter.PrintState(a.out, state, "No VM data found.") {
				return nil
			}

			if view.page > 1 && !ds.GoToPage(view.page) {
				return fmt.Errorf("page %d is out of range (1-%d)", view.page, snap.Pager.TotalPages())
			}
			pager := ds.Snapshot().Pager
			start, _ := pager.Bounds()
			rows := table.Sort(snap.Rows, table.SpecColumns(), view.sortState())

			formatter.PrintTimestamp(a.out, time.Now(), took)
			formatter.PrintSpecTable(a.out, table.PageOf(rows, &pager), cols, formatter.TableOptions{
				Offset: start,
				Sort:   view.sortState(),
			})
			formatter.PrintPageFooter(a.out, &pager)
			return nil
		},
	}
	view.register(cmd, table.DefaultSpecColumns)
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region code")
	cmd.Flags().StringVarP(&name, "name", "n", "", "VM name")
	cmd.Flags().StringVar(&family, "family", "", "VM family")
	cmd.Flags().BoolVar(&byFamily, "by-family", false, "Use the family listing endpoint")
	return cmd
}
