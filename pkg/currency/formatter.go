package currency

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
)

// Format renders amount as "<ISO> <grouped amount>" using the currency's
// standard minor-unit scale, e.g. "EUR 1,234.50" or "JPY 12,000".
// Unknown codes fall back to two decimals.
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}

	factor := math.Pow10(scale)
	rounded := math.Round(amount*factor) / factor

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	whole := math.Floor(rounded)
	formatted := addThousandsSeparator(fmt.Sprintf("%.0f", whole), ",")
	if scale > 0 {
		frac := math.Round((rounded - whole) * factor)
		formatted += fmt.Sprintf(".%0*d", scale, int64(frac))
	}

	result := formatted
	if code != "" {
		result = code + " " + formatted
	}
	if negative {
		result = "-" + result
	}
	return result
}

// Valid reports whether code is a recognised ISO 4217 currency.
func Valid(code string) bool {
	_, err := currency.ParseISO(strings.TrimSpace(code))
	return err == nil
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
