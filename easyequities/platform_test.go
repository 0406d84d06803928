package easyequities

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testUser     = "alice"
	testPassword = "secret"
	sessionID    = "0123456789abcdef"
)

// fakeHolding is a holding served by the fake platform.
type fakeHolding struct {
	code, name                  string
	purchase, value, price      string
	wholeShares, fractionShares string
}

// fakeAccount is an account served by the fake platform.
type fakeAccount struct {
	id, name, currencyID string
	funds                string
	holdings             []fakeHolding
}

// fakePlatform serves the pages of the platform used by Session.
type fakePlatform struct {
	accounts []fakeAccount
	charts   map[string][]float64 // price series per contract code
	delay    time.Duration        // delay of detail pages

	mu          sync.Mutex
	selected    string
	switches    int
	inFlight    int
	maxInFlight int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		accounts: []fakeAccount{
			{
				id: "413393", name: "EasyEquities ZAR", currencyID: "2", funds: "R1 000.00",
				holdings: []fakeHolding{
					{code: "EQU.ZA.A", name: "Alpha Ltd", purchase: "R400.00", value: "R500.00", price: "R50.00", wholeShares: "10", fractionShares: ".0000"},
				},
			},
			{
				id: "512000", name: "Tax Free Savings Account", currencyID: "2", funds: "R12 345.67",
				holdings: []fakeHolding{
					{code: "TFSA.STX500", name: "Satrix S&P 500", purchase: "R1 000.00", value: "R1 250.50", price: "R125.05", wholeShares: "10", fractionShares: ".0160"},
					{code: "TFSA.STXNDQ", name: "Satrix Nasdaq 100", purchase: "R2,000.00", value: "R2,100.00", price: "R210.00", wholeShares: "10", fractionShares: ".0000"},
				},
			},
		},
		charts: map[string][]float64{
			"EQU.ZA.A":    {49, 50},
			"EQU.ZA.B":    {24.5, 25},
			"TFSA.STX500": {120, 122.5, 125.05},
		},
	}
}

// start serves the platform until the end of the test.
func (p *fakePlatform) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+signInPath, p.signIn)
	mux.HandleFunc("POST "+updateCurrencyPath, p.authenticated(p.updateCurrency))
	mux.HandleFunc("GET "+accountOverviewPath, p.authenticated(p.overview))
	mux.HandleFunc("GET "+valuationsPath, p.authenticated(p.valuations))
	mux.HandleFunc("GET /AccountOverview/GetHoldingsView", p.authenticated(p.holdingsView))
	mux.HandleFunc("GET /AccountOverview/GetInstrumentDetailAction/", p.authenticated(p.detailView))
	mux.HandleFunc("GET "+transactionsPath, p.authenticated(p.transactions))
	mux.HandleFunc("GET "+chartDataPath, p.authenticated(p.chart))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (p *fakePlatform) signIn(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("UserIdentifier") != testUser || r.PostFormValue("Password") != testPassword {
		fmt.Fprint(w, "<html><form>invalid credentials</form></html>")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: sessionID, Path: "/"})
	http.Redirect(w, r, "/", http.StatusFound)
}

// authenticated redirects to the sign in page requests without a session.
func (p *fakePlatform) authenticated(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("ASP.NET_SessionId"); err != nil || c.Value != sessionID {
			http.Redirect(w, r, signInPath, http.StatusFound)
			return
		}
		h(w, r)
	}
}

func (p *fakePlatform) account() (fakeAccount, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.accounts {
		if a.id == p.selected {
			return a, true
		}
	}
	return fakeAccount{}, false
}

func (p *fakePlatform) updateCurrency(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = r.PostFormValue("trustAccountId")
	p.switches++
	fmt.Fprint(w, "true")
}

func (p *fakePlatform) overview(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"accounts\">")
	for _, a := range p.accounts {
		fmt.Fprintf(&b, `<div class="account" data-id=%q data-tradingcurrencyid=%q><div id="trust-account-types">
			%s
			<span>more</span></div></div>`, a.id, a.currencyID, a.name)
	}
	// a decoy without currency, like the "open an account" tile.
	b.WriteString(`<div class="new-account"><div id="trust-account-types">Open an account</div></div>`)
	b.WriteString("</div></body></html>")
	fmt.Fprint(w, b.String())
}

func (p *fakePlatform) valuations(w http.ResponseWriter, r *http.Request) {
	a, ok := p.account()
	if !ok {
		http.Error(w, "no account selected", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"TopSummary": map[string]any{
			"AccountNumber":   "EE000-" + a.id,
			"AccountName":     a.name,
			"AccountValue":    "R1 500.00",
			"AccountCurrency": "ZAR",
		},
		"FundSummaryItems": []map[string]any{
			{"Label": "Your Funds to Invest", "Value": a.funds},
			{"Label": "Withdrawable Funds", "Value": "R900.00"},
			{"Label": "Unsettled Cash", "Value": "R 0.00"},
			{"Label": "Locked Funds", "Value": "R100.00"},
			{"Label": "Something New", "Value": "n/a"},
		},
	})
}

func (p *fakePlatform) holdingsView(w http.ResponseWriter, r *http.Request) {
	a, _ := p.account()
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range a.holdings {
		fmt.Fprintf(&b, `<div class="holding">
			<img class="instrument" src="https://resources.easyequities.co.za/logos/%s.png">
			<div class="display-none equity-image-as-text"><div>%s</div></div>
			<div class="purchase-value-cell"><span>%s</span></div>
			<div class="current-value-cell"><span>%s</span></div>
			<div class="current-price-cell"><span>%s</span></div>
			<div class="collapse-container"><span data-detailviewurl="/AccountOverview/GetInstrumentDetailAction/?code=%s">details</span></div>
		</div>`, h.code, h.name, h.purchase, h.value, h.price, h.code)
	}
	b.WriteString("</body></html>")
	fmt.Fprint(w, b.String())
}

func (p *fakePlatform) detailView(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.inFlight++
	p.maxInFlight = max(p.maxInFlight, p.inFlight)
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()
	time.Sleep(p.delay)

	a, _ := p.account()
	code := r.URL.Query().Get("code")
	for _, h := range a.holdings {
		if h.code == code {
			fmt.Fprintf(w, `<html><body><div class="row">
				<div class="col-xs-8">Shares</div>
				<div class="col-xs-4 text-align-right bold-heavy">%s</div>
				<div class="col-xs-4 text-align-right bold-heavy">%s</div>
			</div></body></html>`, h.wholeShares, h.fractionShares)
			return
		}
	}
	http.NotFound(w, r)
}

func (p *fakePlatform) transactions(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `[
		{"Action":"Bought EQU.ZA.A","Comment":"","ContractCode":"EQU.ZA.A","DebitCredit":-400.00,"TransactionDate":"2024-03-01T10:00:00","TransactionId":90210},
		{"Action":"Deposit","Comment":"EFT","ContractCode":"","DebitCredit":1400.00,"TransactionDate":"2024-02-28T08:00:00","TransactionId":"90200"}
	]`)
}

func (p *fakePlatform) chart(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	prices := p.charts[code]
	labels := make([]string, len(prices))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range labels {
		labels[i] = day.AddDate(0, 0, i).Format("2006-01-02")
	}
	if prices == nil {
		prices = []float64{}
	}
	json.NewEncoder(w).Encode(map[string]any{
		"chartData": map[string]any{
			"Dataset":               prices,
			"Labels":                labels,
			"PeriodReturn":          1.5,
			"TradingCurrencySymbol": "R",
		},
	})
}
