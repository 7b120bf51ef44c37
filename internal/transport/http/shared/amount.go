package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"taxease/internal/domain/tax"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// ParseAmount accepts a JSON number or numeric string. Missing, null and
// non-numeric input yield zero. Negative amounts fail with ErrNegativeAmount
// and amounts outside tax.BoundAmount with tax.ErrAmountOutOfRange.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return decimal.Zero, nil
		}
		text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	}
	if text == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, nil
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return tax.BoundAmount(amount)
}
