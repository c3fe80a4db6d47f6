package money

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amount is a BRL amount in centavos. Prices and totals are integer minor
// units so that line totals and sums stay exact.
type Amount int64

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Parse reads a decimal amount like "45", "45.9", "45,90" or "R$ 45,90"
// into centavos. At most two fraction digits are accepted.
func Parse(s string) (Amount, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "R$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(raw, "-") {
		neg = true
		raw = raw[1:]
	}
	if raw == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	// pt-BR input uses comma as the decimal separator; accept both.
	raw = strings.ReplaceAll(raw, ".", ",")
	intPart := raw
	fracPart := ""
	if i := strings.LastIndex(raw, ","); i >= 0 {
		intPart, fracPart = raw[:i], raw[i+1:]
	}
	// strip grouping separators left over in the integer part
	intPart = strings.ReplaceAll(intPart, ",", "")
	if intPart == "" {
		intPart = "0"
	}
	// Only digits past this point; ParseInt alone would accept a second
	// sign, turning "--5" or "45,-5" into a valid-looking value.
	if !digits(intPart) || (fracPart != "" && !digits(fracPart)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := int64(0)
	switch len(fracPart) {
	case 0:
	case 1, 2:
		f, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = f
		if len(fracPart) == 1 {
			cents *= 10
		}
	default:
		return 0, fmt.Errorf("invalid amount %q: at most two fraction digits", s)
	}
	v := whole*100 + cents
	if neg {
		v = -v
	}
	return Amount(v), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Centavos returns the raw minor-unit value.
func (a Amount) Centavos() int64 { return int64(a) }

// Mul scales the amount by an item quantity.
func (a Amount) Mul(qty int) Amount { return a * Amount(qty) }

// Format renders the amount the way the app displays prices, e.g.
// "R$ 1.234,56".
func (a Amount) Format() string {
	v := float64(a) / 100
	return printer.Sprintf("R$ %v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func (a Amount) String() string { return a.Format() }
