package rebalance

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of price requests in flight.
const DefaultConcurrency = 8

// Engine computes rebalancing orders for accounts of a brokerage.
//
// An Engine holds no state between calls: every call fetches a fresh snapshot
// of the account and of the market.
type Engine struct {
	holdings    HoldingsSource
	prices      PriceSource
	concurrency int
	log         zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l.With().Str("component", "rebalance").Logger() }
}

// WithConcurrency bounds the number of simultaneous price requests.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine returns an engine reading accounts from holdings and quotes from prices.
func NewEngine(holdings HoldingsSource, prices PriceSource, opts ...Option) *Engine {
	e := &Engine{
		holdings:    holdings,
		prices:      prices,
		concurrency: DefaultConcurrency,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RebalancingOrders returns the orders that move accountID to weights.
//
// Contracts held but absent from weights are sold entirely. The call is all
// or nothing: any failure of a collaborator fails the whole call with a
// *StageError naming the failed stage.
func (e *Engine) RebalancingOrders(ctx context.Context, accountID string, weights TargetWeights) ([]Order, error) {
	if err := validateAccountID(accountID); err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	log := e.log.With().Str("account", accountID).Logger()
	if sum := weights.Sum(); !sum.InRange() {
		log.Warn().Stringer("sum", sum).Msg("target weights exceed the portfolio value")
	}

	holdings, funds, err := e.snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	value, err := e.value(funds, holdings)
	if err != nil {
		return nil, err
	}
	log.Debug().Stringer("value", value).Int("holdings", len(holdings)).Msg("portfolio valued")

	current := CurrentPositions(holdings)
	prices, err := e.fetchPrices(ctx, union(current, weights))
	if err != nil {
		return nil, &StageError{Stage: StagePrices, Err: err}
	}
	if err := checkPrices(value.Currency(), prices); err != nil {
		return nil, &StageError{Stage: StagePrices, Err: err}
	}

	desired, err := DesiredHoldings(weights, value, prices)
	if err != nil {
		return nil, &StageError{Stage: StageSizing, Err: err}
	}

	orders, err := BuildOrders(Diff(current, desired), prices)
	if err != nil {
		return nil, &StageError{Stage: StageOrders, Err: err}
	}
	log.Info().Int("orders", len(orders)).Msg("rebalancing orders computed")
	return orders, nil
}

// CurrentPortfolioWeights returns the weight of the cash available to invest
// (as CashCode, first) and of every holding of accountID, each rounded to 4
// decimal places.
func (e *Engine) CurrentPortfolioWeights(ctx context.Context, accountID string) ([]Allocation, error) {
	if err := validateAccountID(accountID); err != nil {
		return nil, err
	}
	holdings, funds, err := e.snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	value, err := e.value(funds, holdings)
	if err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, &StageError{Stage: StageValuation, Err: ErrEmptyPortfolio}
	}

	allocations := make([]Allocation, 0, len(holdings)+1)
	allocations = append(allocations, Allocation{ContractCode: CashCode, Weight: funds.AvailableToInvest.Ratio(value)})
	for _, h := range holdings {
		allocations = append(allocations, Allocation{ContractCode: h.ContractCode, Weight: h.CurrentValue.Ratio(value)})
	}
	return allocations, nil
}

// snapshot fetches holdings and funds summary concurrently.
func (e *Engine) snapshot(ctx context.Context, accountID string) ([]Holding, FundsSummary, error) {
	var (
		holdings []Holding
		funds    FundsSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		holdings, err = e.holdings.Holdings(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		funds, err = e.holdings.FundsSummary(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, FundsSummary{}, &StageError{Stage: StageHoldings, Err: err}
	}
	for _, h := range holdings {
		if h.Shares.IsZero() {
			e.log.Warn().Str("contract", h.ContractCode).Msg("holding reported with no shares")
		}
	}
	return holdings, funds, nil
}

// value computes the portfolio value once for the whole call.
func (e *Engine) value(funds FundsSummary, holdings []Holding) (Money, error) {
	value, err := ValuePortfolio(funds, holdings)
	if err != nil {
		return Money{}, &StageError{Stage: StageValuation, Err: err}
	}
	return value, nil
}

// fetchPrices requests one quote per code, at most e.concurrency at a time.
// The first failure cancels the remaining requests.
func (e *Engine) fetchPrices(ctx context.Context, codes []string) (map[string]Money, error) {
	quotes := make([]PriceQuote, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, code := range codes {
		g.Go(func() error {
			q, err := e.prices.CurrentPrice(gctx, code)
			if err != nil {
				return fmt.Errorf("cannot get price of %s: %w", code, err)
			}
			e.log.Debug().Str("contract", code).Stringer("price", q.Price).Msg("price received")
			quotes[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prices := make(map[string]Money, len(codes))
	for i, code := range codes {
		prices[code] = quotes[i].Price
	}
	return prices, nil
}

func validateAccountID(accountID string) error {
	if accountID == "" {
		return &InvalidArgumentError{Argument: "account ID", Reason: "must not be empty"}
	}
	return nil
}
