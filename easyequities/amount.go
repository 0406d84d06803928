package easyequities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/shopspring/decimal"
)

// currency symbols as displayed by the platform.
var currencySymbols = []struct {
	symbol   string
	currency string
}{
	{"R", "ZAR"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"A$", "AUD"},
}

// currencyOf returns the currency displayed as symbol, "" if unknown.
func currencyOf(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	for _, c := range currencySymbols {
		if c.symbol == symbol {
			return c.currency
		}
	}
	return ""
}

var amountCleaner = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

// decimalComma matches an amount using a comma as decimal separator, like
// "1 234,56". Three digits after the comma are a thousands group instead.
var decimalComma = regexp.MustCompile(`^[0-9 \x{00a0}]*,[0-9]{1,2}$`)

// parseAmount parses a displayed amount like "R1,234.56", "R 1 234.56",
// "R1 234,56" or "-$12.00". The currency symbol selects the currency.
func parseAmount(s string) (rebalance.Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	negative := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		negative = true
		s = strings.TrimSpace(rest)
	}
	currency := ""
	for _, c := range currencySymbols {
		if rest, ok := strings.CutPrefix(s, c.symbol); ok {
			currency, s = c.currency, rest
			break
		}
	}
	s = strings.TrimSpace(s)
	if decimalComma.MatchString(s) {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(amountCleaner.Replace(s))
	if err != nil {
		return rebalance.Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return rebalance.M(d, currency), nil
}

// parseShares parses a share count split by the platform into its whole and
// fractional parts, e.g. "12" and ".3456".
func parseShares(whole, fraction string) (rebalance.Quantity, error) {
	s := amountCleaner.Replace(strings.TrimSpace(whole) + strings.TrimSpace(fraction))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return rebalance.Quantity{}, fmt.Errorf("invalid share count %q: %w", s, err)
	}
	return rebalance.Q(d), nil
}
