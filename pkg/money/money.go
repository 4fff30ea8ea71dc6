package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a display-formatted money string (e.g. "$3,100.00", "3100",
// "-$250.50") into a decimal amount. An empty or whitespace-only string parses
// to zero so optional form fields do not fail a whole record.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("invalid money value: %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Format renders an amount as a dollar string with thousands separators and
// two decimal places, e.g. "$3,100.00". Formatting is a display concern only;
// all arithmetic stays on decimal.Decimal.
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole := fixed[:len(fixed)-3]
	cents := fixed[len(fixed)-2:]
	return sign + "$" + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
