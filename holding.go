package rebalance

import (
	"maps"
	"slices"
)

// CashCode is the contract code of the synthetic cash entry returned by
// Engine.CurrentPortfolioWeights.
const CashCode = "cash"

// Holding is a position held in an account, as reported by the brokerage.
type Holding struct {
	ContractCode  string   // Instrument identifier, e.g. "EQU.ZA.SYGJP".
	Instrument    string   // Display name, informational only.
	Shares        Quantity // Number of shares held, possibly fractional.
	PurchaseValue Money    // Total cost of the position.
	CurrentValue  Money    // Mark-to-market value of the position.
	CurrentPrice  Money    // Unit price used for CurrentValue.
}

// FundsSummary is the cash side of an account.
type FundsSummary struct {
	AvailableToInvest Money
	WithdrawableFunds Money
	UnsettledCash     Money
	LockedFunds       Money
}

// PriceQuote is the current price of an instrument.
type PriceQuote struct {
	ContractCode string
	Price        Money
}

// Allocation is the weight of an instrument in a portfolio.
type Allocation struct {
	ContractCode string `json:"contractCode"`
	Weight       Weight `json:"weight"`
}

// Positions maps contract codes to share counts.
type Positions map[string]Quantity

// Codes returns the contract codes in p, sorted.
func (p Positions) Codes() []string { return slices.Sorted(maps.Keys(p)) }

// CurrentPositions returns the share count per contract code of holdings.
// Holdings reported twice for the same code are summed.
func CurrentPositions(holdings []Holding) Positions {
	p := make(Positions, len(holdings))
	for _, h := range holdings {
		p[h.ContractCode] = p[h.ContractCode].Add(h.Shares)
	}
	return p
}

// union returns the sorted union of the keys of a and b.
func union[A, B any](a map[string]A, b map[string]B) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}
