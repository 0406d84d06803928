package easyequities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/rebalance"
	"github.com/shopspring/decimal"
)

// Account is a trust account of the logged in user.
type Account struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TradingCurrencyID string `json:"tradingCurrencyId"`
}

// Accounts lists the accounts of the logged in user.
func (s *Session) Accounts(ctx context.Context) ([]Account, error) {
	data, err := s.query(ctx, http.MethodGet, accountOverviewPath, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, &rebalance.UpstreamDataError{Source: accountOverviewPath, Err: err}
	}

	var accounts []Account
	doc.Find("div[id='trust-account-types']").Each(func(_ int, div *goquery.Selection) {
		parent := div.Parent()
		currency, ok := parent.Attr("data-tradingcurrencyid")
		if !ok {
			return
		}
		id, _ := parent.Attr("data-id")
		accounts = append(accounts, Account{
			ID:                id,
			Name:              strings.TrimSpace(div.Contents().First().Text()),
			TradingCurrencyID: currency,
		})
	})
	s.log.Debug().Int("accounts", len(accounts)).Msg("accounts listed")
	return accounts, nil
}

// valuations is the payload of the account valuations page.
//
//	{
//	    "TopSummary": {
//	        "AccountNumber": "EE123456-413393",
//	        "AccountName": "EasyEquities ZAR",
//	        "AccountValue": "R10 234.56",
//	        "AccountCurrency": "ZAR"
//	    },
//	    "FundSummaryItems": [
//	        {"Label": "Your Funds to Invest", "Value": "R1 000.00"},
//	        {"Label": "Withdrawable Funds", "Value": "R1 000.00"}
//	    ]
//	}
type valuations struct {
	TopSummary       TopSummary
	FundSummaryItems []struct {
		Label string
		Value string
	}
}

// TopSummary is the headline of an account.
type TopSummary struct {
	AccountNumber   string
	AccountName     string
	AccountValue    string
	AccountCurrency string
}

func (s *Session) valuations(ctx context.Context, accountID string) (valuations, error) {
	if err := s.selectAccount(ctx, accountID); err != nil {
		return valuations{}, err
	}
	data, err := s.query(ctx, http.MethodGet, valuationsPath, nil)
	if err != nil {
		return valuations{}, err
	}
	var v valuations
	if err := json.Unmarshal(data, &v); err != nil {
		// the platform answers with its sign in page when the session is stale.
		return valuations{}, &rebalance.UpstreamDataError{Source: valuationsPath, Err: fmt.Errorf("%w: %w", ErrNotLoggedIn, err)}
	}
	return v, nil
}

// fundsFields maps the labels of the funds summary to their field.
var fundsFields = map[string]func(*rebalance.FundsSummary) *rebalance.Money{
	"Your Funds to Invest": func(f *rebalance.FundsSummary) *rebalance.Money { return &f.AvailableToInvest },
	"Withdrawable Funds":   func(f *rebalance.FundsSummary) *rebalance.Money { return &f.WithdrawableFunds },
	"Unsettled Cash":       func(f *rebalance.FundsSummary) *rebalance.Money { return &f.UnsettledCash },
	"Locked Funds":         func(f *rebalance.FundsSummary) *rebalance.Money { return &f.LockedFunds },
}

// FundsSummary returns the cash position of accountID.
func (s *Session) FundsSummary(ctx context.Context, accountID string) (rebalance.FundsSummary, error) {
	v, err := s.valuations(ctx, accountID)
	if err != nil {
		return rebalance.FundsSummary{}, err
	}
	var funds rebalance.FundsSummary
	for _, item := range v.FundSummaryItems {
		field, ok := fundsFields[strings.TrimSpace(item.Label)]
		if !ok {
			s.log.Debug().Str("label", item.Label).Msg("ignoring funds summary item")
			continue
		}
		amount, err := parseAmount(item.Value)
		if err != nil {
			return rebalance.FundsSummary{}, &rebalance.UpstreamDataError{Source: valuationsPath, Err: err}
		}
		*field(&funds) = amount
	}
	return funds, nil
}

// TopSummary returns the headline of accountID.
func (s *Session) TopSummary(ctx context.Context, accountID string) (TopSummary, error) {
	v, err := s.valuations(ctx, accountID)
	if err != nil {
		return TopSummary{}, err
	}
	return v.TopSummary, nil
}

// Transaction is an entry of the transaction history.
type Transaction struct {
	ID           string          `json:"transactionId"`
	Date         string          `json:"transactionDate"`
	Action       string          `json:"action"`
	Comment      string          `json:"comment"`
	ContractCode string          `json:"contractCode"`
	DebitCredit  decimal.Decimal `json:"debitCredit"`
}

// rawTransaction is a transaction as served by the platform, where ids and
// amounts are numbers.
type rawTransaction struct {
	Action          string
	Comment         string
	ContractCode    string
	DebitCredit     decimal.Decimal
	TransactionDate string
	TransactionId   flexString
}

// flexString decodes a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// Transactions returns the transaction history of accountID.
func (s *Session) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	if err := s.selectAccount(ctx, accountID); err != nil {
		return nil, err
	}
	data, err := s.query(ctx, http.MethodGet, transactionsPath, nil)
	if err != nil {
		return nil, err
	}
	var raw []rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &rebalance.UpstreamDataError{Source: transactionsPath, Err: fmt.Errorf("%w: %w", ErrNotLoggedIn, err)}
	}
	transactions := make([]Transaction, 0, len(raw))
	for _, t := range raw {
		transactions = append(transactions, Transaction{
			ID:           string(t.TransactionId),
			Date:         t.TransactionDate,
			Action:       t.Action,
			Comment:      t.Comment,
			ContractCode: t.ContractCode,
			DebitCredit:  t.DebitCredit,
		})
	}
	return transactions, nil
}
