// Package rebalance computes the orders needed to move a brokerage account
// from its current allocation to a target allocation.
//
// The engine reconciles three independently sourced collections:
//   - Holdings: the positions currently held in the account, plus the cash
//     available to invest (see HoldingsSource).
//   - Prices: a live quote for every instrument touched by either side
//     (see PriceSource).
//   - Target weights: the fraction of the portfolio value to hold in each
//     instrument, the remainder being cash.
//
// From them it derives the portfolio value (PortfolioValue), the desired
// share count of every targeted instrument (DesiredHoldings), the signed
// share delta over the union of held and targeted instruments (Diff), and
// finally a list of BUY/SELL orders (BuildOrders). Engine composes these
// steps and fetches collaborator data concurrently.
//
// All monetary values and quantities are exact decimals. Nothing is cached or
// persisted: each call works on a fresh snapshot.
//
// This package serves as the foundation of the `rebal` command-line tool,
// whose EasyEquities collaborator lives in the easyequities package.
package rebalance
