package tax

// Summary is the wire form of a Result: plain JSON numbers instead of
// decimal strings.
type Summary struct {
	EmploymentType        string           `json:"employmentType"`
	TotalIncome           float64          `json:"totalIncome"`
	StandardDeduction     float64          `json:"standardDeduction"`
	TaxableIncome         float64          `json:"taxableIncome"`
	BasicTax              float64          `json:"basicTax"`
	MarginalRelief        float64          `json:"marginalRelief"`
	TotalTax              float64          `json:"totalTax"`
	Brackets              []BracketSummary `json:"brackets"`
	RebateApplied         bool             `json:"rebateApplied"`
	MarginalReliefApplied bool             `json:"marginalReliefApplied"`
}

type BracketSummary struct {
	RangeLabel    string  `json:"rangeLabel"`
	RatePercent   float64 `json:"ratePercent"`
	TaxableAmount float64 `json:"taxableAmount"`
	Amount        float64 `json:"amount"`
}

func (r Result) Summary() Summary {
	brackets := make([]BracketSummary, 0, len(r.Brackets))
	for _, b := range r.Brackets {
		brackets = append(brackets, BracketSummary{
			RangeLabel:    b.Label,
			RatePercent:   b.RatePercent.InexactFloat64(),
			TaxableAmount: b.TaxableAmount.InexactFloat64(),
			Amount:        b.Amount.InexactFloat64(),
		})
	}
	return Summary{
		EmploymentType:        r.EmploymentType.String(),
		TotalIncome:           r.TotalIncome.Round(2).InexactFloat64(),
		StandardDeduction:     r.StandardDeduction.Round(2).InexactFloat64(),
		TaxableIncome:         r.TaxableIncome.Round(2).InexactFloat64(),
		BasicTax:              r.BasicTax.InexactFloat64(),
		MarginalRelief:        r.MarginalRelief.InexactFloat64(),
		TotalTax:              r.TotalTax.InexactFloat64(),
		Brackets:              brackets,
		RebateApplied:         r.RebateApplied,
		MarginalReliefApplied: r.MarginalReliefApplied,
	}
}

// BracketTable describes the regime for display.
type BracketTable struct {
	Name                string       `json:"name"`
	StandardDeduction   float64      `json:"standardDeduction"`
	RebateThreshold     float64      `json:"rebateThreshold"`
	MarginalReliefLimit float64      `json:"marginalReliefLimit"`
	Brackets            []BracketRow `json:"brackets"`
}

type BracketRow struct {
	RangeLabel  string   `json:"rangeLabel"`
	Lower       float64  `json:"lower"`
	Upper       *float64 `json:"upper"`
	RatePercent float64  `json:"ratePercent"`
}

func (r Regime) Table() BracketTable {
	rows := make([]BracketRow, 0, len(r.Brackets))
	for _, b := range r.Brackets {
		row := BracketRow{
			RangeLabel:  b.Label(),
			Lower:       b.Lower.InexactFloat64(),
			RatePercent: b.RatePercent().InexactFloat64(),
		}
		if !b.Unbounded {
			upper := b.Upper.InexactFloat64()
			row.Upper = &upper
		}
		rows = append(rows, row)
	}
	return BracketTable{
		Name:                r.Name,
		StandardDeduction:   r.StandardDeduction.InexactFloat64(),
		RebateThreshold:     r.RebateThreshold.InexactFloat64(),
		MarginalReliefLimit: r.MarginalReliefLimit.InexactFloat64(),
		Brackets:            rows,
	}
}
