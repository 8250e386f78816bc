package i18n

import (
	"fmt"
	"strings"
)

// currencySymbols maps ISO 4217 codes to their display symbol.
var currencySymbols = map[string]struct {
	symbol string
	prefix bool // true = "€12.50", false = "12.50 €"
}{
	"EUR": {"€", true},
	"USD": {"$", true},
	"GBP": {"£", true},
	"SEK": {"kr", false},
	"NOK": {"kr", false},
	"DKK": {"kr.", false},
	"PLN": {"zł", false},
	"RUB": {"₽", false},
	"UAH": {"₴", false},
}

// FormatAmount returns an English-style amount with the currency symbol.
//
//	FormatAmount(15.5, "EUR")  → "€15.50"
//	FormatAmount(150.0, "PLN") → "150.00 zł"
//	FormatAmount(150.0, "XYZ") → "150.00 XYZ"
func FormatAmount(amount float64, currencyCode string) string {
	info, ok := currencySymbols[currencyCode]
	if !ok {
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}
	if info.prefix {
		return fmt.Sprintf("%s%.2f", info.symbol, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, info.symbol)
}

// FormatPrice formats an amount in minor units for lang. Estonian and Russian
// write "1 490,00 €"; everything else falls back to FormatAmount.
func FormatPrice(cents int64, currencyCode, lang string) string {
	amount := float64(cents) / 100

	switch lang {
	case "et", "ru":
		symbol := currencyCode
		if info, ok := currencySymbols[currencyCode]; ok {
			symbol = info.symbol
		}
		return groupThousands(fmt.Sprintf("%.2f", amount), " ", ",") + " " + symbol
	default:
		return FormatAmount(amount, currencyCode)
	}
}

// groupThousands rewrites "1490.00" as "1 490,00" for the given separators
func groupThousands(s, group, decimal string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(decimal)
		b.WriteString(frac)
	}
	return sign + b.String()
}
