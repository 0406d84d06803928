package rebalance

import "context"

// HoldingsSource returns the positions and cash of an account.
//
// Implementations fail when the session is not authenticated or the account
// ID is unknown.
type HoldingsSource interface {
	Holdings(ctx context.Context, accountID string) ([]Holding, error)
	FundsSummary(ctx context.Context, accountID string) (FundsSummary, error)
}

// PriceSource returns the current price of an instrument. It fails if the
// contract code is unknown to the market data provider.
type PriceSource interface {
	CurrentPrice(ctx context.Context, contractCode string) (PriceQuote, error)
}
