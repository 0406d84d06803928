package rebalance

import (
	"fmt"
	"maps"
	"slices"
)

// PortfolioValue returns the value of a portfolio: the cash available to
// invest plus the current value of every holding, rounded to the cent.
//
// All amounts must share one currency, "" matching any: PortfolioValue panics
// on a mismatch. Use ValuePortfolio for values read from a broker.
func PortfolioValue(availableToInvest Money, holdings []Holding) Money {
	value := availableToInvest
	for _, h := range holdings {
		value = value.Add(h.CurrentValue)
	}
	return value.Round(2)
}

// CalculatePortfolioValue is PortfolioValue for callers working with floats.
func CalculatePortfolioValue(availableToInvest float64, holdings []Holding) float64 {
	return PortfolioValue(M(availableToInvest, ""), holdings).Float64()
}

// ValuePortfolio is PortfolioValue for an account's funds and holdings. It
// returns an UpstreamDataError instead of panicking when they are not in the
// same currency.
func ValuePortfolio(funds FundsSummary, holdings []Holding) (Money, error) {
	if err := checkCurrency(funds, holdings); err != nil {
		return Money{}, err
	}
	return PortfolioValue(funds.AvailableToInvest, holdings), nil
}

// checkCurrency verifies that the cash and every holding of an account share
// one currency, so that they can be summed.
func checkCurrency(funds FundsSummary, holdings []Holding) error {
	currency := funds.AvailableToInvest.Currency()
	for _, h := range holdings {
		c := h.CurrentValue.Currency()
		switch {
		case c == "":
		case currency == "":
			currency = c
		case c != currency:
			return &UpstreamDataError{
				Source: "holdings",
				Err:    fmt.Errorf("%s is valued in %s, expected %s", h.ContractCode, c, currency),
			}
		}
	}
	return nil
}

// checkPrices verifies that every price is in currency, so that the portfolio
// value can be sized against it. An empty currency matches any.
func checkPrices(currency string, prices map[string]Money) error {
	if currency == "" {
		return nil
	}
	for _, code := range slices.Sorted(maps.Keys(prices)) {
		if c := prices[code].Currency(); c != "" && c != currency {
			return &UpstreamDataError{
				Source: "prices",
				Err:    fmt.Errorf("price of %s is in %s, expected %s", code, c, currency),
			}
		}
	}
	return nil
}
