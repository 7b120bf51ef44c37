package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EmploymentType is closed: only Salaried and SelfEmployed are valid, the
// zero value is not.
type EmploymentType int

const (
	EmploymentUnknown EmploymentType = iota
	Salaried
	SelfEmployed
)

var employmentNormalizer = strings.NewReplacer("-", "", "_", "", " ", "")

// ParseEmploymentType accepts the wire names (Salaried, SelfEmployed) and the
// stored codes (salaried, self-employed), ignoring case and separators.
func ParseEmploymentType(raw string) (EmploymentType, error) {
	normalized := employmentNormalizer.Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case "salaried":
		return Salaried, nil
	case "selfemployed":
		return SelfEmployed, nil
	}
	return EmploymentUnknown, fmt.Errorf("%w: %q", ErrInvalidEmploymentType, raw)
}

func (t EmploymentType) Valid() bool {
	return t == Salaried || t == SelfEmployed
}

func (t EmploymentType) String() string {
	switch t {
	case Salaried:
		return "Salaried"
	case SelfEmployed:
		return "SelfEmployed"
	}
	return "Unknown"
}

// Code is the value persisted in the incomes table.
func (t EmploymentType) Code() string {
	switch t {
	case Salaried:
		return "salaried"
	case SelfEmployed:
		return "self-employed"
	}
	return ""
}

// Label is the human readable form used in reports.
func (t EmploymentType) Label() string {
	switch t {
	case Salaried:
		return "Salaried"
	case SelfEmployed:
		return "Self-Employed"
	}
	return "Unknown"
}

func (t EmploymentType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidEmploymentType
	}
	return []byte(t.String()), nil
}

func (t *EmploymentType) UnmarshalText(text []byte) error {
	parsed, err := ParseEmploymentType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Input struct {
	GrossSalary    decimal.Decimal
	OtherIncome    decimal.Decimal
	EmploymentType EmploymentType
}

type BracketAmount struct {
	Label         string          `json:"rangeLabel"`
	RatePercent   decimal.Decimal `json:"ratePercent"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	Amount        decimal.Decimal `json:"amount"`
}

// Result is derived entirely from an Input and the regime. Brackets always
// carries one entry per regime bracket, zero amounts included. Each Amount is
// rounded on its own while BasicTax rounds the exact sum, so the two can
// differ by a paisa. TotalTax is what is owed after rebate or marginal relief.
type Result struct {
	EmploymentType        EmploymentType  `json:"employmentType"`
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	StandardDeduction     decimal.Decimal `json:"standardDeduction"`
	TaxableIncome         decimal.Decimal `json:"taxableIncome"`
	BasicTax              decimal.Decimal `json:"basicTax"`
	MarginalRelief        decimal.Decimal `json:"marginalRelief"`
	TotalTax              decimal.Decimal `json:"totalTax"`
	Brackets              []BracketAmount `json:"brackets"`
	RebateApplied         bool            `json:"rebateApplied"`
	MarginalReliefApplied bool            `json:"marginalReliefApplied"`
}

// Outcome names which rule produced TotalTax.
func (r Result) Outcome() string {
	switch {
	case r.RebateApplied:
		return OutcomeRebate
	case r.MarginalReliefApplied:
		return OutcomeMarginalRelief
	}
	return OutcomeSlab
}

const (
	OutcomeRebate         = "rebate"
	OutcomeMarginalRelief = "marginal_relief"
	OutcomeSlab           = "slab"
)
