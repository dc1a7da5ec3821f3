package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/detail"
	"github.com/younsl/pricenexus/pkg/formatter"
)

func newInfoCmd(a *app) *cobra.Command {
	var filter models.VariantFilter
	var variant string

	cmd := &cobra.Command{
		Use:   "info <region> <size>",
		Short: "Show the details and variants of one Azure VM size",
		Example: `  pricenexus info eastus Standard_D2s_v3
  pricenexus info eastus Standard_D2s_v3 --tier Basic
  pricenexus info eastus Standard_D2s_v3 --variant D4s_v3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := detail.NewExplorer(a.azure, args[0], args[1])
			defer e.Close()

			var err error
			withSpinner("Loading VM data ...", func() {
				err = e.Init(ctx)
				if err != nil {
					return
				}
				if !filter.IsZero() {
					st := e.State()
					f := st.Filter
					if filter.Region != "" {
						f.Region = filter.Region
					}
					if filter.Family != "" {
						f.Family = filter.Family
					}
					f.Tier = filter.Tier
					err = e.Apply(ctx, f)
				}
				if err == nil && variant != "" {
					err = e.Select(ctx, variant)
				}
			})

			return printExplorer(a.out, e, err)
		},
	}
	cmd.Flags().StringVar(&filter.Region, "variant-region", "", "Region of the variants list")
	cmd.Flags().StringVar(&filter.Family, "family", "", "Family of the variants list")
	cmd.Flags().StringVar(&filter.Tier, "tier", "", "Tier of the variants list; the view switches to the first matching VM")
	cmd.Flags().StringVar(&variant, "variant", "", "Show another size of the family instead")
	return cmd
}

// printExplorer renders the detail view of e. A failed lookup or load comes back as a
// shownError so the exit code reflects it; an empty variants list is not a failure.
func printExplorer(w io.Writer, e *detail.Explorer, err error) error {
	st := e.State()
	if st.Selected == nil {
		formatter.PrintError(w, st.Err)
	} else {
		formatter.PrintDetail(w, *st.Selected)
		formatter.PrintVariants(w, st)
	}
	if err == nil || errors.Is(err, detail.ErrEmpty) {
		return nil
	}
	return &shownError{err: err}
}
