package rebalance

import (
	"errors"
	"fmt"
)

// ErrEmptyPortfolio is returned when weights are requested for a portfolio
// worth nothing.
var ErrEmptyPortfolio = errors.New("portfolio has no value")

// MissingPriceError reports a contract code needed for sizing or order
// estimation that has no price.
type MissingPriceError struct {
	ContractCode string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for contract %q", e.ContractCode)
}

// UpstreamDataError reports data from a collaborator that cannot be used:
// malformed pages, unauthenticated sessions, inconsistent values.
type UpstreamDataError struct {
	Source string // what was being read, e.g. "holdings page"
	Err    error
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("invalid data from %s: %v", e.Source, e.Err)
}

func (e *UpstreamDataError) Unwrap() error { return e.Err }

// InvalidArgumentError reports a missing or invalid caller argument.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Argument, e.Reason)
}

// Stage identifies a step of the rebalancing computation.
type Stage string

const (
	StageHoldings  Stage = "holdings fetch"
	StageValuation Stage = "valuation"
	StagePrices    Stage = "price fetch"
	StageSizing    Stage = "sizing"
	StageOrders    Stage = "orders"
)

// StageError wraps the error that made a stage fail.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage reported by err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
