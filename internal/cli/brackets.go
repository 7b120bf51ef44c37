package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taxease/internal/domain/tax"
)

func NewBracketsCommand(rootOpts *RootOptions) *cobra.Command {
	var regimeFile string

	cmd := &cobra.Command{
		Use:   "brackets",
		Short: "Print the bracket table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := tax.LoadEngine(regimeFile)
			if err != nil {
				return err
			}
			regime := engine.Regime()
			out := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return out.emit(regime.Table(), func(w io.Writer) error {
				return writeRegime(w, regime)
			})
		},
	}

	cmd.Flags().StringVar(&regimeFile, "regime", "", "regime file (.yaml or .toml)")
	return cmd
}

func writeRegime(w io.Writer, regime tax.Regime) error {
	fmt.Fprintln(w, regime.Name)
	fmt.Fprintf(w, "Standard deduction (salaried): %s\n", tax.FormatINR(regime.StandardDeduction))
	fmt.Fprintf(w, "Rebate threshold: %s\n", tax.FormatINR(regime.RebateThreshold))
	fmt.Fprintf(w, "Marginal relief limit (self-employed): %s\n\n", tax.FormatINR(regime.MarginalReliefLimit))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Range\tRate")
	for _, b := range regime.Brackets {
		fmt.Fprintf(tw, "%s\t%s%%\n", b.Label(), b.RatePercent().String())
	}
	return tw.Flush()
}
