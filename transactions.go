package fintrack

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"
)

// TradeKind identifies the side of a trade.
type TradeKind string

const (
	Buy  TradeKind = "buy"
	Sell TradeKind = "sell"
)

// ParseTradeKind parses "buy" or "sell".
func ParseTradeKind(s string) (TradeKind, error) {
	switch k := TradeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Buy, Sell:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown trade kind %q", ErrValidation, s)
	}
}

// DefaultFeedSize is the number of trades shown in a transaction feed.
const DefaultFeedSize = 10

// Transaction is the immutable record of a settled trade.
type Transaction struct {
	ID        string    `json:"id"`
	Kind      TradeKind `json:"kind"`
	Symbol    string    `json:"symbol"`
	Quantity  Quantity  `json:"quantity"`
	Price     Money     `json:"price"` // price at execution
	Timestamp time.Time `json:"timestamp"`
}

// Amount returns the cash exchanged by the trade.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// TradeLog is the append-only history of settled trades, in settlement order.
type TradeLog struct {
	txs []Transaction
}

// Append adds a transaction at the end of the log.
func (l *TradeLog) Append(tx Transaction) { l.txs = append(l.txs, tx) }

// Len returns the number of recorded trades.
func (l TradeLog) Len() int { return len(l.txs) }

// clone returns a copy sharing no backing array with l.
func (l TradeLog) clone() TradeLog {
	txs := make([]Transaction, len(l.txs), len(l.txs)+1)
	copy(txs, l.txs)
	return TradeLog{txs: txs}
}

// All iterates over the transactions in chronological order.
func (l TradeLog) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.txs {
			if !yield(tx) {
				return
			}
		}
	}
}

// Recent returns up to n transactions, newest first. n <= 0 returns them all.
//
// This is a display policy only: it never truncates the log.
func (l TradeLog) Recent(n int) []Transaction {
	if n <= 0 || n > len(l.txs) {
		n = len(l.txs)
	}
	out := make([]Transaction, 0, n)
	for i := len(l.txs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.txs[i])
	}
	return out
}

// BySymbol returns a predicate that filters transactions by symbol.
func BySymbol(symbol string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Symbol == symbol }
}

// Filter iterates over the transactions accepted by all predicates.
func (l TradeLog) Filter(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, tx := range l.txs {
			for _, accept := range filters {
				if !accept(tx) {
					continue next
				}
			}
			if !yield(tx) {
				return
			}
		}
	}
}

func (l TradeLog) MarshalJSON() ([]byte, error) {
	if l.txs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.txs)
}

func (l *TradeLog) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.txs)
}
