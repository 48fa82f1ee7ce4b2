package renderer

import (
	"bytes"

	"github.com/etnz/fintrack"
	md "github.com/nao1215/markdown"
)

var bucketTitles = map[fintrack.BucketKind]string{
	fintrack.ExpenseCategory: "Budget",
	fintrack.SavingsGoal:     "Savings Goals",
	fintrack.IncomeSource:    "Income Sources",
}

// BucketsMarkdown renders one table per bucket kind. No kind means all of them.
func BucketsMarkdown(b *fintrack.Buckets, kinds ...fintrack.BucketKind) string {
	if len(kinds) == 0 {
		kinds = []fintrack.BucketKind{fintrack.ExpenseCategory, fintrack.SavingsGoal, fintrack.IncomeSource}
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	for _, kind := range kinds {
		doc.H2(bucketTitles[kind])
		var rows [][]string
		for x := range b.List(kind) {
			rows = append(rows, []string{x.Name, x.Progress.String(), x.Target.String(), x.Ratio().String(), x.Remaining().String(), shortID(x.ID)})
		}
		if len(rows) == 0 {
			doc.PlainText("Nothing yet.")
			continue
		}
		target, progress := b.Totals(kind)
		rows = append(rows, []string{md.Bold("Total"), md.Bold(progress.String()), md.Bold(target.String()), progress.Ratio(target).String(), target.Sub(progress).String(), ""})
		doc.Table(md.TableSet{
			Header: []string{"Name", "Progress", "Target", "Done", "Remaining", "ID"},
			Rows:   rows,
		})
	}
	return doc.String()
}

// shortID returns the first 8 characters of a uuid; commands accept prefixes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
