// Package money parses and formats peso amounts as they appear in
// spreadsheets, forms and customer messages.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var cleaner = strings.NewReplacer("$", "", " ", "", ",", "", "\u00a0", "")

// Parse reads a currency cell such as "$ 50,000", "45000" or "12.5".
// Empty or unparseable input yields zero; spreadsheet cells are free text and
// a bad cell must not abort a whole import.
func Parse(s string) decimal.Decimal {
	s = cleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders d as whole pesos with thousands separators, e.g. "$95,000".
func Format(d decimal.Decimal) string {
	neg := d.IsNegative()
	digits := d.Abs().Round(0).StringFixed(0)

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
