package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fintrack"
	md "github.com/nao1215/markdown"
)

// QuotesMarkdown renders the quotes of the given classes, one section per
// class with the columns relevant to it. No class means all of them.
func QuotesMarkdown(store *fintrack.QuoteStore, classes ...fintrack.AssetClass) string {
	if len(classes) == 0 {
		classes = []fintrack.AssetClass{fintrack.Equity, fintrack.Bond, fintrack.MutualFund, fintrack.Crypto}
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Market")

	for _, class := range classes {
		var rows [][]string
		var header []string
		for q := range store.Quotes() {
			if !fintrack.ByClass(class)(q) {
				continue
			}
			row := []string{q.Symbol(), q.Instrument.Name, q.Price.String()}
			switch d := q.Instrument.Details.(type) {
			case fintrack.EquityDetails:
				header = []string{"Symbol", "Name", "Price", "Change"}
				row = append(row, fintrack.Percent(d.ChangePercent).SignedString())
			case fintrack.BondDetails:
				header = []string{"Symbol", "Name", "Price", "Yield", "Maturity"}
				row = append(row, fintrack.Percent(d.Yield).String(), d.Maturity)
			case fintrack.FundDetails:
				header = []string{"Symbol", "Name", "NAV", "Expense Ratio", "Category"}
				row = append(row, fintrack.Percent(d.ExpenseRatio).String(), d.Category)
			case fintrack.CryptoDetails:
				header = []string{"Symbol", "Name", "Price", "Change", "Volume"}
				row = append(row, fintrack.Percent(d.ChangePercent).SignedString(), fintrack.M(d.Volume, q.Price.Currency()).String())
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			continue
		}
		doc.H2(classTitle(class))
		doc.Table(md.TableSet{Header: header, Rows: rows})
	}
	return doc.String()
}

func classTitle(c fintrack.AssetClass) string {
	switch c {
	case fintrack.Equity:
		return "Stocks"
	case fintrack.Bond:
		return "Bonds"
	case fintrack.MutualFund:
		return "Mutual Funds"
	case fintrack.Crypto:
		return "Crypto"
	}
	return fmt.Sprint(c)
}
