package renderer

import (
	"bytes"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	md "github.com/nao1215/markdown"
)

// PerformanceMarkdown renders the daily net worth with its day to day change.
func PerformanceMarkdown(h *date.History[fintrack.Money]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Performance")
	if h.Len() == 0 {
		doc.PlainText("No history yet.")
		return doc.String()
	}

	var rows [][]string
	var prev fintrack.Money
	first := true
	for day, v := range h.Values() {
		change := "-"
		if !first {
			change = v.Sub(prev).Ratio(prev).SignedString()
		}
		rows = append(rows, []string{day.String(), v.String(), change})
		prev, first = v, false
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Net Worth", "Change"},
		Rows:   rows,
	})
	return doc.String()
}
