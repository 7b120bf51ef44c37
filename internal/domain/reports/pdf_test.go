package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxease/internal/domain/tax"
)

func sampleData(t *testing.T, employment tax.EmploymentType, salary int64) Data {
	t.Helper()
	res, err := tax.Compute(tax.Input{GrossSalary: decimal.NewFromInt(salary), EmploymentType: employment})
	require.NoError(t, err)
	return Data{
		CalculationID: "calc-1",
		UserName:      "asha rao",
		UserEmail:     "asha@example.com",
		AccountType:   "standard",
		MemberSince:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		GrossSalary:   decimal.NewFromInt(salary),
		OtherIncome:   decimal.Zero,
		Result:        res,
		CalculatedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		GeneratedAt:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	for _, employment := range []tax.EmploymentType{tax.Salaried, tax.SelfEmployed} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, sampleData(t, employment, 2_000_000)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "missing pdf header for %s", employment)
		assert.Greater(t, buf.Len(), 1000)
	}
}

func TestBreakdownRowsSkipsZeroBrackets(t *testing.T) {
	data := sampleData(t, tax.SelfEmployed, 1_000_000)
	rows := BreakdownRows(data.Result)
	require.Len(t, rows, 2)
	assert.Equal(t, "4,00,001 - 8,00,000", rows[0].Label)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(20_000)))
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "Rs. 12,75,000", Rupees(decimal.NewFromInt(1_275_000)))
}

func TestAdjustmentNote(t *testing.T) {
	relief := sampleData(t, tax.SelfEmployed, 1_250_000)
	assert.Contains(t, adjustmentNote(relief.Result), "Marginal relief")

	rebate := sampleData(t, tax.Salaried, 1_000_000)
	assert.Contains(t, adjustmentNote(rebate.Result), "Rebate")

	slab := sampleData(t, tax.Salaried, 2_000_000)
	assert.Empty(t, adjustmentNote(slab.Result))
}
