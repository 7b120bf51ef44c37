package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR groups digits the Indian way (12,34,567). Paise are shown only
// when non-zero.
func FormatINR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	rounded := amount.Round(2)
	whole := rounded.Truncate(0)
	out := sign + groupIndian(whole.String())
	if paise := rounded.Sub(whole).Shift(2).IntPart(); paise != 0 {
		out += fmt.Sprintf(".%02d", paise)
	}
	return out
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
