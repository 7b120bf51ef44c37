package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"taxease/internal/domain/tax"
)

const ProductName = "TaxEase"

// Data is everything a tax report page shows. Result is rebuilt from the
// stored inputs, so its breakdown matches the active regime.
type Data struct {
	CalculationID string
	UserName      string
	UserEmail     string
	AccountType   string
	MemberSince   time.Time
	GrossSalary   decimal.Decimal
	OtherIncome   decimal.Decimal
	Result        tax.Result
	CalculatedAt  time.Time
	GeneratedAt   time.Time
}
