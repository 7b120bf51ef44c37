package tax

import "github.com/shopspring/decimal"

// Engine applies one Regime. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	regime Regime
}

var defaultEngine = mustEngine(DefaultRegime())

func NewEngine(regime Regime) (*Engine, error) {
	if err := regime.Validate(); err != nil {
		return nil, err
	}
	return &Engine{regime: regime.clone()}, nil
}

func mustEngine(regime Regime) *Engine {
	engine, err := NewEngine(regime)
	if err != nil {
		panic(err)
	}
	return engine
}

// Default returns the engine for DefaultRegime.
func Default() *Engine {
	return defaultEngine
}

// Compute runs the default engine.
func Compute(in Input) (Result, error) {
	return defaultEngine.Compute(in)
}

func (e *Engine) Regime() Regime {
	return e.regime.clone()
}

// Compute derives the liability for in.
//
// Only an invalid employment type fails. Amounts are never rejected here:
// zero values (missing input) count as zero and negative amounts are clamped
// to zero. Callers that want to refuse negative input must check before
// calling.
//
// Salaried income gets the standard deduction, floored so taxable income
// stays non-negative. Taxable income at or below the rebate threshold owes
// nothing. Self-employed income above the threshold and up to the marginal
// relief limit owes only the excess over the threshold. Everything else pays
// the bracket sum.
func (e *Engine) Compute(in Input) (Result, error) {
	if !in.EmploymentType.Valid() {
		return Result{}, ErrInvalidEmploymentType
	}

	total := nonNegative(in.GrossSalary).Add(nonNegative(in.OtherIncome))

	deduction := decimal.Zero
	if in.EmploymentType == Salaried {
		deduction = decimal.Min(e.regime.StandardDeduction, total)
	}
	taxable := total.Sub(deduction)

	brackets, basic := e.apply(taxable)
	basic = basic.Round(2)

	res := Result{
		EmploymentType:    in.EmploymentType,
		TotalIncome:       total,
		StandardDeduction: deduction,
		TaxableIncome:     taxable,
		BasicTax:          basic,
		MarginalRelief:    decimal.Zero,
		Brackets:          brackets,
	}

	switch {
	case taxable.LessThanOrEqual(e.regime.RebateThreshold):
		res.RebateApplied = true
		res.TotalTax = decimal.Zero
	case in.EmploymentType == SelfEmployed && total.LessThanOrEqual(e.regime.MarginalReliefLimit):
		res.MarginalReliefApplied = true
		res.TotalTax = total.Sub(e.regime.RebateThreshold).Round(2)
		res.MarginalRelief = basic.Sub(res.TotalTax)
	default:
		res.TotalTax = basic
	}

	return res, nil
}

// RegularTax is the plain bracket sum for amount, rounded to 2 places.
func (e *Engine) RegularTax(amount decimal.Decimal) decimal.Decimal {
	_, total := e.apply(nonNegative(amount))
	return total.Round(2)
}

func (e *Engine) apply(amount decimal.Decimal) ([]BracketAmount, decimal.Decimal) {
	out := make([]BracketAmount, 0, len(e.regime.Brackets))
	total := decimal.Zero
	for _, b := range e.regime.Brackets {
		portion := b.portion(amount)
		tax := portion.Mul(b.Rate)
		total = total.Add(tax)
		out = append(out, BracketAmount{
			Label:         b.Label(),
			RatePercent:   b.RatePercent(),
			TaxableAmount: portion,
			Amount:        tax.Round(2),
		})
	}
	return out, total
}

func nonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
