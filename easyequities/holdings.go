package easyequities

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/rebalance"
	"golang.org/x/sync/errgroup"
)

// holdingsColumns are the cells of the holdings view, one per holding.
type holdingsColumns struct {
	instruments    []string
	purchaseValues []string
	currentValues  []string
	currentPrices  []string
	contractCodes  []string
	detailURLs     []string
}

// texts returns the trimmed text of each element matching selector.
func texts(doc *goquery.Document, selector string) []string {
	var values []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		values = append(values, strings.TrimSpace(s.Contents().First().Text()))
	})
	return values
}

// parseHoldingsView scrapes the holdings view columns.
func parseHoldingsView(data []byte) (holdingsColumns, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return holdingsColumns{}, err
	}
	cols := holdingsColumns{
		instruments:    texts(doc, "div[class='display-none equity-image-as-text'] div"),
		purchaseValues: texts(doc, "div[class='purchase-value-cell'] span"),
		currentValues:  texts(doc, "div[class='current-value-cell'] span"),
		currentPrices:  texts(doc, "div[class='current-price-cell'] span"),
	}
	// the contract code is the name of the instrument logo.
	doc.Find("img[class='instrument']").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		cols.contractCodes = append(cols.contractCodes, strings.TrimSpace(strings.TrimSuffix(path.Base(src), ".png")))
	})
	doc.Find("div[class='collapse-container'] span[data-detailviewurl]").Each(func(_ int, s *goquery.Selection) {
		u, _ := s.Attr("data-detailviewurl")
		cols.detailURLs = append(cols.detailURLs, u)
	})

	n := len(cols.instruments)
	for name, col := range map[string][]string{
		"purchase values": cols.purchaseValues,
		"current values":  cols.currentValues,
		"current prices":  cols.currentPrices,
		"contract codes":  cols.contractCodes,
		"detail views":    cols.detailURLs,
	} {
		if len(col) != n {
			return holdingsColumns{}, fmt.Errorf("found %d %s for %d instruments", len(col), name, n)
		}
	}
	return cols, nil
}

// parseDetailView reads the number of shares in a holding detail page.
func parseDetailView(data []byte) (rebalance.Quantity, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return rebalance.Quantity{}, err
	}
	cells := doc.Find("div[class='col-xs-4 text-align-right bold-heavy']")
	if cells.Length() < 2 {
		return rebalance.Quantity{}, fmt.Errorf("found %d share cells, want 2", cells.Length())
	}
	whole := cells.Eq(0).Contents().First().Text()
	fraction := cells.Eq(1).Contents().First().Text()
	return parseShares(whole, fraction)
}

// Holdings returns the holdings of accountID.
func (s *Session) Holdings(ctx context.Context, accountID string) ([]rebalance.Holding, error) {
	if err := s.selectAccount(ctx, accountID); err != nil {
		return nil, err
	}
	data, err := s.query(ctx, http.MethodGet, holdingsPath, nil)
	if err != nil {
		return nil, err
	}
	cols, err := parseHoldingsView(data)
	if err != nil {
		return nil, &rebalance.UpstreamDataError{Source: "holdings view", Err: err}
	}

	holdings := make([]rebalance.Holding, len(cols.instruments))
	for i := range holdings {
		h := &holdings[i]
		h.Instrument = cols.instruments[i]
		h.ContractCode = cols.contractCodes[i]
		for _, cell := range []struct {
			dst *rebalance.Money
			src string
		}{
			{&h.PurchaseValue, cols.purchaseValues[i]},
			{&h.CurrentValue, cols.currentValues[i]},
			{&h.CurrentPrice, cols.currentPrices[i]},
		} {
			if *cell.dst, err = parseAmount(cell.src); err != nil {
				return nil, &rebalance.UpstreamDataError{Source: "holdings view", Err: fmt.Errorf("%s: %w", h.ContractCode, err)}
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailConcurrency)
	for i, detailURL := range cols.detailURLs {
		g.Go(func() error {
			page, err := s.query(gctx, http.MethodGet, detailURL, nil)
			if err != nil {
				return fmt.Errorf("cannot get detail of %s: %w", holdings[i].ContractCode, err)
			}
			shares, err := parseDetailView(page)
			if err != nil {
				return &rebalance.UpstreamDataError{Source: "detail view of " + holdings[i].ContractCode, Err: err}
			}
			holdings[i].Shares = shares
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Debug().Str("account", accountID).Int("holdings", len(holdings)).Msg("holdings fetched")
	return holdings, nil
}
