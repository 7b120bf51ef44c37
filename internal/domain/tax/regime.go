package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Bracket taxes the part of an amount above Lower and up to Upper at Rate.
// Rate is a fraction; an Unbounded bracket ignores Upper.
type Bracket struct {
	Lower     decimal.Decimal
	Upper     decimal.Decimal
	Unbounded bool
	Rate      decimal.Decimal
}

func (b Bracket) Label() string {
	if b.Unbounded {
		return "Above " + FormatINR(b.Lower)
	}
	lower := b.Lower
	if lower.IsPositive() {
		lower = lower.Add(decimal.NewFromInt(1))
	}
	return FormatINR(lower) + " - " + FormatINR(b.Upper)
}

func (b Bracket) RatePercent() decimal.Decimal {
	return b.Rate.Mul(hundred)
}

func (b Bracket) portion(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(b.Lower) {
		return decimal.Zero
	}
	above := amount.Sub(b.Lower)
	if b.Unbounded {
		return above
	}
	return decimal.Min(above, b.Upper.Sub(b.Lower))
}

// Regime holds every constant the engine needs for one tax year.
type Regime struct {
	Name                string
	Brackets            []Bracket
	StandardDeduction   decimal.Decimal
	RebateThreshold     decimal.Decimal
	MarginalReliefLimit decimal.Decimal
}

// DefaultRegime returns a fresh copy of the FY 2025-26 new-regime table.
func DefaultRegime() Regime {
	return Regime{
		Name: "New regime FY 2025-26",
		Brackets: []Bracket{
			bounded(0, 400000, "0"),
			bounded(400000, 800000, "0.05"),
			bounded(800000, 1200000, "0.10"),
			bounded(1200000, 1600000, "0.15"),
			bounded(1600000, 2000000, "0.20"),
			bounded(2000000, 2400000, "0.25"),
			{Lower: decimal.NewFromInt(2400000), Unbounded: true, Rate: decimal.RequireFromString("0.30")},
		},
		StandardDeduction:   decimal.NewFromInt(75000),
		RebateThreshold:     decimal.NewFromInt(1200000),
		MarginalReliefLimit: decimal.NewFromInt(1275000),
	}
}

func bounded(lower, upper int64, rate string) Bracket {
	return Bracket{
		Lower: decimal.NewFromInt(lower),
		Upper: decimal.NewFromInt(upper),
		Rate:  decimal.RequireFromString(rate),
	}
}

func (r Regime) Validate() error {
	if len(r.Brackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidRegime)
	}
	if !r.Brackets[0].Lower.IsZero() {
		return fmt.Errorf("%w: first bracket must start at 0", ErrInvalidRegime)
	}
	for i, b := range r.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d rate %s out of range", ErrInvalidRegime, i+1, b.Rate)
		}
		last := i == len(r.Brackets)-1
		if b.Unbounded != last {
			return fmt.Errorf("%w: only the last bracket may be unbounded", ErrInvalidRegime)
		}
		if last {
			continue
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("%w: bracket %d upper bound must exceed lower bound", ErrInvalidRegime, i+1)
		}
		if !r.Brackets[i+1].Lower.Equal(b.Upper) {
			return fmt.Errorf("%w: bracket %d does not start where bracket %d ends", ErrInvalidRegime, i+2, i+1)
		}
	}
	if r.StandardDeduction.IsNegative() || r.RebateThreshold.IsNegative() {
		return fmt.Errorf("%w: deduction and rebate threshold must be non-negative", ErrInvalidRegime)
	}
	if r.MarginalReliefLimit.LessThan(r.RebateThreshold) {
		return fmt.Errorf("%w: marginal relief limit below rebate threshold", ErrInvalidRegime)
	}
	return nil
}

func (r Regime) clone() Regime {
	out := r
	out.Brackets = append([]Bracket(nil), r.Brackets...)
	return out
}
