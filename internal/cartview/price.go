package cartview

import (
	"strings"

	"matcha-storefront/internal/domain"
)

// ComingSoon is shown instead of a price for variants that are not priced yet.
const ComingSoon = "Coming soon"

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"KRW": "₩",
}

// minorDigits lists currencies that do not use two decimal places.
var minorDigits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
}

// FormatPrice renders an amount with its currency, e.g. "$1,234.50".
// A zero amount is a real zero price; see FormatVariantPrice for unpriced variants.
func FormatPrice(m domain.Money) string {
	code := strings.ToUpper(m.CurrencyCode)
	digits, ok := minorDigits[code]
	if !ok {
		digits = 2
	}
	amount := m.Amount.Round(digits)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	number := group(amount.StringFixed(digits))

	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + number
	}
	if code == "" {
		return sign + number
	}
	return sign + number + " " + code
}

// FormatVariantPrice is the listing rendering of a variant's price, where a
// zero price means the variant is coming soon.
func FormatVariantPrice(v domain.Variant) string {
	if v.Price.IsZero() {
		return ComingSoon
	}
	return FormatPrice(v.Price)
}

// FormatPriceRange renders a product's price, prefixed with "From" when variants differ.
func FormatPriceRange(r domain.PriceRange) string {
	if r.Min.IsZero() {
		if r.Max.IsZero() {
			return ComingSoon
		}
		return FormatPrice(r.Max)
	}
	if r.Max.Amount.GreaterThan(r.Min.Amount) {
		return "From " + FormatPrice(r.Min)
	}
	return FormatPrice(r.Min)
}

// group inserts thousands separators into the integer part of a fixed-point string.
func group(fixed string) string {
	intPart, frac, hasFrac := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return fixed
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
