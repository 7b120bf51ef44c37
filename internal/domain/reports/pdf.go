package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"taxease/internal/domain/tax"
)

const (
	pageWidth  = 595.28
	margin     = 40.0
	tableWidth = pageWidth - 2*margin
	rowHeight  = 20.0
)

type rgb struct{ r, g, b int }

var (
	primary   = rgb{0, 114, 255}
	secondary = rgb{0, 198, 255}
	text      = rgb{31, 41, 55}
	lightGray = rgb{248, 250, 252}
	border    = rgb{226, 232, 240}
	white     = rgb{255, 255, 255}
)

var titleCaser = cases.Title(language.English)

// Rupees renders an amount for the PDF. The core fonts have no rupee glyph.
func Rupees(amount decimal.Decimal) string {
	return "Rs. " + tax.FormatINR(amount)
}

// Render writes a single page A4 report for data to w.
func Render(w io.Writer, data Data) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(ProductName+" Tax Calculation Report", false)
	pdf.SetAuthor(ProductName, false)
	pdf.AddPage()

	drawHeader(pdf, data)

	y := 100.0
	drawDetails(pdf, data, y)
	y += 160

	y = drawBreakdown(pdf, data.Result, y)
	drawTotal(pdf, data.Result, y+20)
	drawFooter(pdf)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func fill(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func ink(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func drawHeader(pdf *gofpdf.Fpdf, data Data) {
	fill(pdf, primary)
	pdf.Rect(0, 0, pageWidth, 80, "F")
	fill(pdf, secondary)
	pdf.Rect(0, 80, pageWidth, 3, "F")

	ink(pdf, white)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.Text(margin, 45, ProductName)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, 68, "Tax Calculation Report")

	if data.UserName != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(300, 32, "Generated For: "+titleCaser.String(data.UserName))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(300, 52, "Date: "+data.GeneratedAt.Format("02 Jan 2006, 15:04 MST"))
	}
}

func drawDetails(pdf *gofpdf.Fpdf, data Data, y float64) {
	fill(pdf, lightGray)
	pdf.SetDrawColor(border.r, border.g, border.b)
	pdf.Rect(margin, y, tableWidth, 140, "FD")
	fill(pdf, secondary)
	pdf.Rect(margin, y, tableWidth, 2, "F")

	ink(pdf, text)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(50, y+24, "User Information")
	pdf.Text(300, y+24, "Income Details")

	accountType := data.AccountType
	if accountType == "" {
		accountType = "standard user"
	}
	user := [][2]string{
		{"Email:", data.UserEmail},
		{"Member Since:", formatDate(data.MemberSince)},
		{"Account Type:", titleCaser.String(accountType)},
	}
	labelled(pdf, user, 50, 130, y+45)

	res := data.Result
	income := [][2]string{
		{"Employment:", res.EmploymentType.Label()},
		{"Salary:", Rupees(data.GrossSalary)},
		{"Other Income:", Rupees(data.OtherIncome)},
		{"Total Income:", Rupees(res.TotalIncome)},
	}
	if res.EmploymentType == tax.Salaried {
		income = append(income, [2]string{"Std. Deduction:", Rupees(res.StandardDeduction)})
	}
	income = append(income, [2]string{"Taxable Income:", Rupees(res.TaxableIncome)})
	labelled(pdf, income, 300, 380, y+45)
}

func labelled(pdf *gofpdf.Fpdf, rows [][2]string, labelX, valueX, y float64) {
	for i, row := range rows {
		line := y + float64(i)*18
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(labelX, line, row[0])
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(valueX, line, row[1])
	}
}

func drawBreakdown(pdf *gofpdf.Fpdf, res tax.Result, y float64) float64 {
	ink(pdf, text)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, y+14, "Tax Breakdown")
	y += 25

	fill(pdf, primary)
	pdf.Rect(margin, y, tableWidth, rowHeight, "F")
	ink(pdf, white)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(50, y+14, "Income Slab")
	pdf.Text(240, y+14, "Rate")
	pdf.Text(330, y+14, "Tax Amount")
	y += rowHeight

	for _, b := range BreakdownRows(res) {
		fill(pdf, lightGray)
		pdf.Rect(margin, y, tableWidth, rowHeight, "FD")
		ink(pdf, text)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(50, y+14, b.Label)
		pdf.Text(240, y+14, b.RatePercent.String()+"%")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(330, y+14, Rupees(b.Amount))
		y += rowHeight
	}

	if note := adjustmentNote(res); note != "" {
		y += 6
		ink(pdf, text)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Text(50, y+10, note)
		y += 14
	}
	return y
}

// BreakdownRows are the brackets that attracted tax.
func BreakdownRows(res tax.Result) []tax.BracketAmount {
	rows := make([]tax.BracketAmount, 0, len(res.Brackets))
	for _, b := range res.Brackets {
		if b.Amount.IsPositive() {
			rows = append(rows, b)
		}
	}
	return rows
}

func adjustmentNote(res tax.Result) string {
	switch {
	case res.RebateApplied && res.BasicTax.IsPositive():
		return "Rebate applied: taxable income is within the rebate threshold, so no tax is payable."
	case res.MarginalReliefApplied:
		return "Marginal relief applied: tax is limited to the income above the rebate threshold."
	}
	return ""
}

func drawTotal(pdf *gofpdf.Fpdf, res tax.Result, y float64) {
	fill(pdf, primary)
	pdf.Rect(margin, y, tableWidth, 50, "F")
	ink(pdf, white)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(50, y+31, "Total Tax Payable:")
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(330, y+31, Rupees(res.TotalTax))
}

func drawFooter(pdf *gofpdf.Fpdf) {
	ink(pdf, text)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(margin, 780)
	pdf.CellFormat(tableWidth, 10,
		"This is a computer-generated document and does not require a signature. For queries, contact support@taxease.com",
		"", 0, "C", false, 0, "")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}
