package renderer

import (
	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/easyequities"
)

// Orders is the rebalancing report of an account.
type Orders struct {
	// Account is the ID of the rebalanced account.
	Account string `json:"account"`
	// Orders to place, buys and sells mixed, by contract code.
	Orders []rebalance.Order `json:"orders"`
	// Buys is the estimated value of all buy orders.
	Buys rebalance.Money `json:"buys"`
	// Sells is the estimated value of all sell orders.
	Sells rebalance.Money `json:"sells"`
}

// NewOrders returns the report of orders for account.
func NewOrders(account string, orders []rebalance.Order) *Orders {
	buys, sells := rebalance.Totals(orders)
	return &Orders{Account: account, Orders: orders, Buys: buys, Sells: sells}
}

// Weights is the current allocation of an account.
type Weights struct {
	Account     string                 `json:"account"`
	Allocations []rebalance.Allocation `json:"allocations"`
}

// Total returns the sum of all weights, close to 100% up to rounding.
func (w *Weights) Total() rebalance.Weight {
	var total rebalance.Weight
	for _, a := range w.Allocations {
		total = total.Add(a.Weight)
	}
	return total
}

// Holdings is the content of an account.
type Holdings struct {
	Account  string              `json:"account"`
	Holdings []rebalance.Holding `json:"holdings"`
}

// Total returns the current value of all holdings.
func (h *Holdings) Total() rebalance.Money {
	var total rebalance.Money
	for _, x := range h.Holdings {
		total = total.Add(x.CurrentValue)
	}
	return total
}

// Accounts lists the accounts of a user.
type Accounts struct {
	Accounts []easyequities.Account `json:"accounts"`
}

// Funds is the cash position of an account.
type Funds struct {
	Account string                  `json:"account"`
	Summary easyequities.TopSummary `json:"summary"`
	Funds   rebalance.FundsSummary  `json:"funds"`
}

// Transactions is the history of an account.
type Transactions struct {
	Account      string                     `json:"account"`
	Transactions []easyequities.Transaction `json:"transactions"`
}

// Prices lists current prices.
type Prices struct {
	Quotes []rebalance.PriceQuote `json:"quotes"`
}
