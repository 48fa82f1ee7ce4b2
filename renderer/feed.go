package renderer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/etnz/fintrack"
	md "github.com/nao1215/markdown"
)

// FeedMarkdown renders the n most recent trades, newest first.
func FeedMarkdown(log fintrack.TradeLog, n int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transactions")

	recent := log.Recent(n)
	if len(recent) == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}
	var rows [][]string
	for _, tx := range recent {
		rows = append(rows, []string{
			tx.Timestamp.Format("2006-01-02 15:04"),
			string(tx.Kind),
			tx.Symbol,
			tx.Quantity.String(),
			tx.Price.String(),
			tx.Amount().String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Kind", "Symbol", "Quantity", "Price", "Amount"},
		Rows:   rows,
	})
	if log.Len() > len(recent) {
		doc.PlainText(fmt.Sprintf("%d older transactions not shown.", log.Len()-len(recent)))
	}
	return doc.String()
}

// ReceiptText describes a settled order in one sentence.
func ReceiptText(r fintrack.Receipt) string {
	verb := "Bought"
	if r.Order.Kind == fintrack.Sell {
		verb = "Sold"
	}
	return fmt.Sprintf("%s %s %s at %s for %s", verb, r.Order.Quantity, r.Order.Symbol, r.Price, r.Amount)
}

// TradeErrorText turns a settlement error into a message for the user.
func TradeErrorText(err error) string {
	switch {
	case errors.Is(err, fintrack.ErrInsufficientBalance):
		return "Insufficient balance for this purchase."
	case errors.Is(err, fintrack.ErrInsufficientHoldings):
		return "Insufficient holdings for this sale."
	case errors.Is(err, fintrack.ErrQuoteUnavailable):
		return "No price is available for this instrument, refresh the quotes and try again."
	case errors.Is(err, fintrack.ErrValidation):
		return fmt.Sprintf("Invalid order: %v", err)
	default:
		return fmt.Sprintf("The trade failed: %v", err)
	}
}
