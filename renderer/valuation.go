package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fintrack"
	md "github.com/nao1215/markdown"
)

// ValuationMarkdown renders the holdings table and the portfolio totals.
func ValuationMarkdown(v fintrack.Valuation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")
	doc.Table(md.TableSet{
		Header: []string{"", "Value"},
		Rows: [][]string{
			{"Cash", v.Cash.String()},
			{"Investments", v.Total.String()},
			{md.Bold("Net Worth"), md.Bold(v.NetWorth().String())},
			{"Unrealized P&L", fmt.Sprintf("%s (%s)", v.PnL.SignedString(), v.PnLPercent().SignedString())},
		},
	})

	if len(v.Lines) == 0 {
		doc.PlainText("No holdings yet.")
		return doc.String()
	}

	doc.H2("Holdings")
	stale := false
	var rows [][]string
	for _, l := range v.Lines {
		price := l.Price.String()
		if !l.Quoted {
			price += "*"
			stale = true
		}
		rows = append(rows, []string{
			l.Symbol,
			l.Name,
			l.Class.String(),
			l.Shares.String(),
			l.AverageCost.String(),
			price,
			l.Value.String(),
			l.UnrealizedPnL.SignedString(),
			l.PnLPercent.SignedString(),
			l.Allocation.String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Symbol", "Name", "Class", "Shares", "Avg Cost", "Price", "Value", "P&L", "P&L %", "Allocation"},
		Rows:   rows,
	})
	if stale {
		doc.PlainText("\\* not quoted, valued at average cost.")
	}
	return doc.String()
}
