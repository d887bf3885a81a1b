package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/storefront/internal/modules/cart"
)

const waBase = "https://wa.me/"

// SummaryLines renders one "<qty>x <name> - <currency> <lineTotal>" entry per
// cart line followed by the total.
func SummaryLines(lines []cart.Line, currency string) []string {
	out := make([]string, 0, len(lines)+1)
	total := decimal.Zero
	for _, l := range lines {
		lt := l.LineTotal()
		total = total.Add(lt)
		out = append(out, fmt.Sprintf("%dx %s - %s %s", l.Quantity, l.Name, currency, lt.StringFixed(2)))
	}
	return append(out, fmt.Sprintf("Total: %s %s", currency, total.StringFixed(2)))
}

// BuildSummary is the order text as a reader sees it, one entry per line.
func BuildSummary(lines []cart.Line, currency string) string {
	return strings.Join(SummaryLines(lines, currency), "\n")
}

// DeepLink builds the wa.me URL that opens a chat with phone prefilled with
// the order summary. Each entry is component-encoded and entries are joined
// with a literal %0A.
func DeepLink(phone string, lines []cart.Line, currency string) (string, error) {
	digits := phoneDigits(phone)
	if digits == "" {
		return "", ErrNoPhone
	}
	entries := SummaryLines(lines, currency)
	for i, e := range entries {
		entries[i] = encodeComponent(e)
	}
	return waBase + digits + "?text=" + strings.Join(entries, "%0A"), nil
}

// phoneDigits keeps only the digits; wa.me wants the international number
// without "+", spaces or dashes.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeComponent matches browser encodeURIComponent for the characters that
// appear in summaries: spaces become %20 rather than "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
