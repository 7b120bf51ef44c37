package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"taxease/internal/domain/tax"
)

type computeOptions struct {
	salary     string
	other      string
	employment string
	regime     string
}

func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the tax owed on a salary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.salary, "salary", "0", "gross salary")
	cmd.Flags().StringVar(&opts.other, "other", "0", "other income")
	cmd.Flags().StringVar(&opts.employment, "type", tax.Salaried.String(), "employment type (Salaried|SelfEmployed)")
	cmd.Flags().StringVar(&opts.regime, "regime", "", "regime file (.yaml or .toml)")

	return cmd
}

func runCompute(rootOpts *RootOptions, opts *computeOptions, w io.Writer) error {
	gross, err := parseAmount("salary", opts.salary)
	if err != nil {
		return err
	}
	other, err := parseAmount("other", opts.other)
	if err != nil {
		return err
	}
	employment, err := tax.ParseEmploymentType(opts.employment)
	if err != nil {
		return err
	}
	engine, err := tax.LoadEngine(opts.regime)
	if err != nil {
		return err
	}

	res, err := engine.Compute(tax.Input{GrossSalary: gross, OtherIncome: other, EmploymentType: employment})
	if err != nil {
		return err
	}

	out := formatter{format: rootOpts.Format, w: w}
	return out.emit(res.Summary(), func(w io.Writer) error {
		return writeResult(w, res)
	})
}

func parseAmount(flag, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", flag, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s: must not be negative", flag)
	}
	amount, err = tax.BoundAmount(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", flag, err)
	}
	return amount, nil
}

func writeResult(w io.Writer, res tax.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Employment type\t%s\n", res.EmploymentType.Label())
	fmt.Fprintf(tw, "Total income\t%s\n", tax.FormatINR(res.TotalIncome))
	fmt.Fprintf(tw, "Standard deduction\t%s\n", tax.FormatINR(res.StandardDeduction))
	fmt.Fprintf(tw, "Taxable income\t%s\n", tax.FormatINR(res.TaxableIncome))
	fmt.Fprintf(tw, "Rule\t%s\n", res.Outcome())
	fmt.Fprintf(tw, "Total tax\t%s\n", tax.FormatINR(res.TotalTax))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Bracket\tRate\tTaxed\tTax")
	for _, b := range res.Brackets {
		fmt.Fprintf(tw, "%s\t%s%%\t%s\t%s\n", b.Label, b.RatePercent.String(), tax.FormatINR(b.TaxableAmount), tax.FormatINR(b.Amount))
	}
	return tw.Flush()
}
