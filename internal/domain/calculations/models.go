package calculations

import (
	"time"

	"github.com/shopspring/decimal"

	"taxease/internal/domain/tax"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Calculation is one persisted run of the engine. Only the inputs and the
// final liability are stored; the breakdown is rebuilt on demand.
type Calculation struct {
	ID             string
	UserID         string
	Salary         decimal.Decimal
	OtherIncome    decimal.Decimal
	EmploymentType tax.EmploymentType
	TaxCalculated  decimal.Decimal
	CreatedAt      time.Time
}

func (c Calculation) TotalIncome() decimal.Decimal {
	return c.Salary.Add(c.OtherIncome)
}

func (c Calculation) Input() tax.Input {
	return tax.Input{
		GrossSalary:    c.Salary,
		OtherIncome:    c.OtherIncome,
		EmploymentType: c.EmploymentType,
	}
}

type Record struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Salary         float64   `json:"salary"`
	OtherIncome    float64   `json:"otherIncome"`
	TotalIncome    float64   `json:"totalIncome"`
	EmploymentType string    `json:"employmentType"`
	TaxCalculated  float64   `json:"taxCalculated"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (c Calculation) Record() Record {
	return Record{
		ID:             c.ID,
		UserID:         c.UserID,
		Salary:         c.Salary.InexactFloat64(),
		OtherIncome:    c.OtherIncome.InexactFloat64(),
		TotalIncome:    c.TotalIncome().InexactFloat64(),
		EmploymentType: c.EmploymentType.String(),
		TaxCalculated:  c.TaxCalculated.InexactFloat64(),
		CreatedAt:      c.CreatedAt,
	}
}

type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type History struct {
	Items  []Record `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

func nonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
