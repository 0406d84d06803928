package easyequities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/araddon/dateparse"
	"github.com/etnz/rebalance"
	"github.com/shopspring/decimal"
)

// Period is the time span of a price history.
type Period string

// Periods served by the platform.
const (
	OneMonth    Period = "OneMonth"
	ThreeMonths Period = "ThreeMonths"
	SixMonths   Period = "SixMonths"
	OneYear     Period = "OneYear"
	Max         Period = "Max"
)

// Periods lists all the valid periods.
var Periods = []Period{OneMonth, ThreeMonths, SixMonths, OneYear, Max}

// Valid reports whether p is a period served by the platform.
func (p Period) Valid() bool {
	return slices.Contains(Periods, p)
}

// PricePoint is the closing price of a day.
type PricePoint struct {
	Time  time.Time
	Price rebalance.Money
}

// PriceHistory is the daily price series of a contract over a period.
type PriceHistory struct {
	ContractCode string
	Currency     string
	PeriodReturn decimal.Decimal
	Points       []PricePoint
}

// chartData is the payload of the chart data page.
//
//	{
//	    "chartData": {
//	        "Dataset": [52.1, 52.3],
//	        "Labels": ["2024-03-01", "2024-03-04"],
//	        "PeriodReturn": 0.38,
//	        "TradingCurrencySymbol": "R"
//	    }
//	}
type chartData struct {
	ChartData struct {
		Dataset               []decimal.Decimal
		Labels                []string
		PeriodReturn          decimal.Decimal
		TradingCurrencySymbol string
	} `json:"chartData"`
}

func chartDataPathFor(code string, period Period) string {
	q := url.Values{"code": {code}, "period": {string(period)}}
	return chartDataPath + "?" + q.Encode()
}

// HistoricalPrices returns the daily prices of code over period.
func (s *Session) HistoricalPrices(ctx context.Context, code string, period Period) (PriceHistory, error) {
	if code == "" {
		return PriceHistory{}, &rebalance.InvalidArgumentError{Argument: "contract code", Reason: "must not be empty"}
	}
	if !period.Valid() {
		return PriceHistory{}, &rebalance.InvalidArgumentError{Argument: "period", Reason: fmt.Sprintf("%q is not one of %v", period, Periods)}
	}
	data, err := s.query(ctx, http.MethodGet, chartDataPathFor(code, period), nil)
	if err != nil {
		return PriceHistory{}, err
	}
	var chart chartData
	if err := json.Unmarshal(data, &chart); err != nil {
		return PriceHistory{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: err}
	}
	c := chart.ChartData
	if len(c.Dataset) == 0 {
		return PriceHistory{}, fmt.Errorf("%w: %s", ErrUnknownContract, code)
	}
	if len(c.Labels) != len(c.Dataset) {
		return PriceHistory{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: fmt.Errorf("%d labels for %d prices", len(c.Labels), len(c.Dataset))}
	}

	currency := currencyOf(c.TradingCurrencySymbol)
	h := PriceHistory{
		ContractCode: code,
		Currency:     currency,
		PeriodReturn: c.PeriodReturn,
		Points:       make([]PricePoint, len(c.Dataset)),
	}
	for i, price := range c.Dataset {
		t, err := dateparse.ParseAny(c.Labels[i])
		if err != nil {
			return PriceHistory{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: err}
		}
		h.Points[i] = PricePoint{Time: t, Price: rebalance.M(price, currency)}
	}
	return h, nil
}

// paths in the chart data payload.
const (
	datasetPath = "$.chartData.Dataset"
	symbolPath  = "$.chartData.TradingCurrencySymbol"
)

// CurrentPrice returns the latest price of code, the last point of its one
// month history.
func (s *Session) CurrentPrice(ctx context.Context, code string) (rebalance.PriceQuote, error) {
	if code == "" {
		return rebalance.PriceQuote{}, &rebalance.InvalidArgumentError{Argument: "contract code", Reason: "must not be empty"}
	}
	data, err := s.query(ctx, http.MethodGet, chartDataPathFor(code, OneMonth), nil)
	if err != nil {
		return rebalance.PriceQuote{}, err
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return rebalance.PriceQuote{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: err}
	}
	dataset, err := jsonpath.Get(datasetPath, v)
	if err != nil {
		return rebalance.PriceQuote{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: err}
	}
	points, ok := dataset.([]any)
	if !ok {
		return rebalance.PriceQuote{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: fmt.Errorf("unexpected dataset %T", dataset)}
	}
	if len(points) == 0 {
		return rebalance.PriceQuote{}, fmt.Errorf("%w: %s", ErrUnknownContract, code)
	}
	price, err := toDecimal(points[len(points)-1])
	if err != nil {
		return rebalance.PriceQuote{}, &rebalance.UpstreamDataError{Source: chartDataPath, Err: err}
	}

	currency := ""
	if symbol, err := jsonpath.Get(symbolPath, v); err == nil {
		if sym, ok := symbol.(string); ok {
			currency = currencyOf(sym)
		}
	}
	s.log.Debug().Str("contract", code).Str("price", price.String()).Msg("current price")
	return rebalance.PriceQuote{ContractCode: code, Price: rebalance.M(price, currency)}, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected price %v of type %T", v, v)
	}
}
