// Package renderer renders accounts, holdings and rebalancing orders as
// markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/rebalance/easyequities"
)

//go:embed *.md
var templates embed.FS

// RenderOrders renders the rebalancing orders of an account.
func RenderOrders(o *Orders) string {
	partials := map[string]string{
		"orders_table":  "orders_table.md",
		"orders_totals": "orders_totals.md",
	}
	return renderTemplate("orders", "orders.md", partials, o)
}

// RenderWeights renders the current weights of an account.
func RenderWeights(w *Weights) string {
	return renderTemplate("weights", "weights.md", nil, w)
}

// RenderHoldings renders the holdings of an account.
func RenderHoldings(h *Holdings) string {
	return renderTemplate("holdings", "holdings.md", nil, h)
}

// RenderAccounts renders the list of accounts.
func RenderAccounts(a *Accounts) string {
	return renderTemplate("accounts", "accounts.md", nil, a)
}

// RenderFunds renders the funds summary of an account.
func RenderFunds(f *Funds) string {
	return renderTemplate("funds", "funds.md", nil, f)
}

// RenderTransactions renders the transaction history of an account.
func RenderTransactions(t *Transactions) string {
	return renderTemplate("transactions", "transactions.md", nil, t)
}

// RenderPrices renders current prices.
func RenderPrices(p *Prices) string {
	return renderTemplate("prices", "prices.md", nil, p)
}

// RenderHistory renders the daily prices of an instrument.
func RenderHistory(h *easyequities.PriceHistory) string {
	return renderTemplate("history", "history.md", nil, h)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
