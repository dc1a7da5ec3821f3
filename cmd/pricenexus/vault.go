package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/compare"
	"github.com/younsl/pricenexus/pkg/formatter"
	"github.com/younsl/pricenexus/pkg/provider"
)

func newVaultCmd(a *app, root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage the comparison vault",
	}
	cmd.AddCommand(
		newVaultListCmd(a),
		newVaultAddCmd(a, root),
		newVaultRemoveCmd(a),
		newVaultClearCmd(a),
		newVaultCompareCmd(a),
	)
	return cmd
}

func newVaultListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved selections per provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}
			formatter.PrintVault(a.out, v.Entries(), time.Now())
			return nil
		},
	}
}

func newVaultAddCmd(a *app, root *rootFlags) *cobra.Command {
	view := &viewFlags{}
	pf := &priceFlags{}
	var all bool

	cmd := &cobra.Command{
		Use:   "add [row...]",
		Short: "Save price rows for comparison",
		Long: `Save price rows for comparison. Rows are the "#" numbers printed by
the prices command run with the same filter and sort flags.`,
		Example: `  pricenexus prices -r eastus -s D2s --sort pricePerHour
  pricenexus vault add -r eastus -s D2s --sort pricePerHour 1 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("pass row numbers or --all")
			}
			f, err := pf.filter(view.filters)
			if err != nil {
				return err
			}
			p, err := a.registry.Get(root.providerName)
			if err != nil {
				return err
			}
			v, err := a.openVault()
			if err != nil {
				return err
			}

			ds := a.store.Provider(p.Name()).Pricing
			snap, _ := loadPrices(cmd.Context(), ds, p, f)
			if snap.Err != "" {
				return fmt.Errorf("%s", snap.Err)
			}
			rows := sortedPrices(snap.Rows, view, time.Now())

			picked, err := pickRows(rows, args)
			if err != nil {
				return err
			}
			now := time.Now()
			entries := make([]models.SelectionEntry, 0, len(picked))
			for _, r := range picked {
				entries = append(entries, models.NewSelectionEntry(p.Name(), r, now))
			}
			n, err := v.Add(entries...)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %d of %d rows to %s (%d in vault)\n", n, len(picked), v.Path(), v.Len())
			return nil
		},
	}
	view.register(cmd, nil)
	pf.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "Save every matching row")
	return cmd
}

func pickRows(rows []models.PricingRecord, refs []string) ([]models.PricingRecord, error) {
	if len(refs) == 0 {
		return rows, nil
	}
	out := make([]models.PricingRecord, 0, len(refs))
	for _, ref := range refs {
		n, err := strconv.Atoi(ref)
		if err != nil || n < 1 || n > len(rows) {
			return nil, fmt.Errorf("row %q is out of range (1-%d)", ref, len(rows))
		}
		out = append(out, rows[n-1])
	}
	return out, nil
}

func newVaultRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry...>",
		Short: "Remove saved selections by position or item key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}
			n, err := v.Remove(args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %d entries (%d left)\n", n, v.Len())
			return nil
		},
	}
}

func newVaultClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}
			if err := v.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Vault cleared")
			return nil
		},
	}
}

func newVaultCompareCmd(a *app) *cobra.Command {
	var noAI, noChart bool

	cmd := &cobra.Command{
		Use:   "compare [entry...]",
		Short: "Compare saved selections side by side",
		Long: `Compare saved selections. Entries are vault positions or item keys;
without arguments every entry is compared. All entries must belong to one provider.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}
			entries, err := v.Select(args...)
			if err != nil {
				return err
			}
			if err := compare.Guard(len(entries)); err != nil {
				formatter.PrintError(a.out, compare.GuardMessage)
				return nil
			}
			return a.runComparison(cmd.Context(), entries, !noAI, !noChart)
		},
	}
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the AI recommendation")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "Skip the chart")
	return cmd
}

func (a *app) runComparison(ctx context.Context, entries []models.SelectionEntry, withAI, withChart bool) error {
	name, err := commonProvider(entries)
	if err != nil {
		return err
	}
	p, err := a.registry.Get(name)
	if err != nil {
		return err
	}

	refs := make([]models.VMRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Ref())
	}

	var payload *models.ComparisonPayload
	withSpinner("Comparing VMs ...", func() {
		payload, err = p.Compare(ctx, refs)
	})
	if err != nil {
		formatter.PrintError(a.out, "Failed to compare VMs: "+err.Error())
		return nil
	}

	rows := compare.Compute(payload.Data, entries)
	formatter.PrintComparison(a.out, rows)
	if withChart && len(rows) > 0 {
		formatter.PrintChart(a.out, compare.BuildChart(rows))
	}
	if !withAI || len(rows) == 0 {
		return nil
	}

	r, err := a.recommender()
	if err != nil {
		formatter.PrintRecommendation(a.out, "", err)
		return nil
	}
	var text string
	withSpinner("Asking for a recommendation ...", func() {
		text, err = r.Recommend(ctx, rows)
	})
	formatter.PrintRecommendation(a.out, text, err)
	return nil
}

func commonProvider(entries []models.SelectionEntry) (string, error) {
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		name := e.Provider
		if name == "" {
			name = provider.AzureName
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) != 1 {
		return "", fmt.Errorf("selections span providers %s; compare entries of one provider", strings.Join(names, ", "))
	}
	return names[0], nil
}
