package renderer

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/etnz/fintrack"
	md "github.com/nao1215/markdown"
)

// CashFlowMarkdown renders the totals of a period followed by its entries.
func CashFlowMarkdown(s fintrack.Summary, entries iter.Seq[fintrack.Entry]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cash Flow %s", s.Range.Identifier()))
	doc.Table(md.TableSet{
		Header: []string{"", "Amount"},
		Rows: [][]string{
			{"Fixed income", s.FixedIncome.String()},
			{"Variable income", s.VariableIncome.String()},
			{md.Bold("Total income"), md.Bold(s.TotalIncome.String())},
			{md.Bold("Total expenses"), md.Bold(s.TotalExpenses.String())},
			{md.Bold("Savings"), md.Bold(s.Savings().SignedString())},
		},
	})

	var rows [][]string
	for e := range entries {
		source := string(e.Source)
		if e.Kind == fintrack.Expense {
			source = ""
		}
		amount := e.Amount
		if e.Kind == fintrack.Expense {
			amount = amount.Neg()
		}
		rows = append(rows, []string{e.Date.String(), e.Label, source, amount.SignedString(), shortID(e.ID)})
	}
	if len(rows) > 0 {
		doc.H2("Entries")
		doc.Table(md.TableSet{
			Header: []string{"Date", "Label", "Source", "Amount", "ID"},
			Rows:   rows,
		})
	}
	return doc.String()
}
