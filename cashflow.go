package fintrack

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/etnz/fintrack/date"
	"github.com/google/uuid"
)

// EntryKind tells whether an entry brings or spends money.
type EntryKind string

const (
	Income  EntryKind = "income"
	Expense EntryKind = "expense"
)

// Source tells whether an entry is recurring or occasional.
type Source string

const (
	Fixed    Source = "fixed"
	Variable Source = "variable"
)

// ParseEntryKind parses "income" or "expense".
func ParseEntryKind(s string) (EntryKind, error) {
	switch k := EntryKind(strings.ToLower(s)); k {
	case Income, Expense:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown entry kind %q", ErrValidation, s)
	}
}

// ParseSource parses "fixed" or "variable".
func ParseSource(s string) (Source, error) {
	switch k := Source(strings.ToLower(s)); k {
	case Fixed, Variable:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown source %q", ErrValidation, s)
	}
}

// SuggestedLabels returns the labels offered for an entry of kind and source.
func SuggestedLabels(kind EntryKind, source Source) []string {
	switch {
	case kind == Expense:
		return []string{"Rent", "Groceries", "Utilities"}
	case source == Fixed:
		return []string{"Salary", "Rental Income"}
	default:
		return []string{"Freelance", "Investments"}
	}
}

// Entry is an income or an expense logged by the user.
type Entry struct {
	ID     string    `json:"id"`
	Kind   EntryKind `json:"kind"`
	Source Source    `json:"source,omitempty"`
	Amount Money     `json:"amount"`
	Label  string    `json:"label"`
	Date   date.Date `json:"date"`
}

func (e Entry) validate(currency string) error {
	var problems []string
	if _, err := ParseEntryKind(string(e.Kind)); err != nil {
		problems = append(problems, err.Error())
	}
	if e.Kind == Income {
		if _, err := ParseSource(string(e.Source)); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if !e.Amount.IsPositive() {
		problems = append(problems, fmt.Sprintf("amount must be positive, got %s", e.Amount))
	} else if e.Amount.Currency() != currency {
		problems = append(problems, fmt.Sprintf("amount is in %q, want %q", e.Amount.Currency(), currency))
	}
	if strings.TrimSpace(e.Label) == "" {
		problems = append(problems, "label is missing")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// CashFlow is the log of income and expense entries.
type CashFlow struct {
	currency string
	entries  []Entry
}

// NewCashFlow returns an empty log for amounts in currency.
func NewCashFlow(currency string) *CashFlow {
	return &CashFlow{currency: currency}
}

func (c *CashFlow) index(id string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.ID == id })
}

// Add records a new entry. Its ID is assigned, a zero date means today.
func (c *CashFlow) Add(e Entry) (Entry, error) {
	if e.Date.IsZero() {
		e.Date = date.Today()
	}
	if err := e.validate(c.currency); err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	c.entries = append(c.entries, e)
	return e, nil
}

// Update replaces the entry id, keeping its ID.
func (c *CashFlow) Update(id string, e Entry) (Entry, error) {
	i := c.index(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: entry %q", ErrNotFound, id)
	}
	if e.Date.IsZero() {
		e.Date = c.entries[i].Date
	}
	if err := e.validate(c.currency); err != nil {
		return Entry{}, err
	}
	e.ID = id
	c.entries[i] = e
	return e, nil
}

// Delete removes the entry id.
func (c *CashFlow) Delete(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: entry %q", ErrNotFound, id)
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return nil
}

// Get returns the entry id.
func (c *CashFlow) Get(id string) (Entry, bool) {
	i := c.index(id)
	if i < 0 {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Currency returns the currency of all amounts.
func (c *CashFlow) Currency() string { return c.currency }

// Len returns the number of entries.
func (c *CashFlow) Len() int { return len(c.entries) }

// InRange returns a predicate that filters entries by date.
func InRange(r date.Range) func(Entry) bool {
	return func(e Entry) bool { return r.Contains(e.Date) }
}

// OfKind returns a predicate that filters entries by kind.
func OfKind(kind EntryKind) func(Entry) bool {
	return func(e Entry) bool { return e.Kind == kind }
}

// Entries iterates over the entries accepted by all filters, in chronological
// order (stable for entries of the same day).
func (c *CashFlow) Entries(filters ...func(Entry) bool) iter.Seq[Entry] {
	sorted := slices.Clone(c.entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return a.Date.Compare(b.Date) })
	return func(yield func(Entry) bool) {
	next:
		for _, e := range sorted {
			for _, accept := range filters {
				if !accept(e) {
					continue next
				}
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Summary holds the totals of a cash flow over a range.
type Summary struct {
	Range          date.Range
	TotalIncome    Money
	FixedIncome    Money
	VariableIncome Money
	TotalExpenses  Money
}

// Savings returns income minus expenses.
func (s Summary) Savings() Money { return s.TotalIncome.Sub(s.TotalExpenses) }

// Summary computes the totals of the entries in r.
func (c *CashFlow) Summary(r date.Range) Summary {
	zero := M(0, c.currency)
	s := Summary{Range: r, TotalIncome: zero, FixedIncome: zero, VariableIncome: zero, TotalExpenses: zero}
	for e := range c.Entries(InRange(r)) {
		switch e.Kind {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
			if e.Source == Fixed {
				s.FixedIncome = s.FixedIncome.Add(e.Amount)
			} else {
				s.VariableIncome = s.VariableIncome.Add(e.Amount)
			}
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		}
	}
	return s
}

func (c *CashFlow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", c.currency)
	entries := c.entries
	if entries == nil {
		entries = []Entry{}
	}
	w.Append("entries", entries)
	return w.MarshalJSON()
}

func (c *CashFlow) UnmarshalJSON(data []byte) error {
	var temp struct {
		Currency string  `json:"currency"`
		Entries  []Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	c.currency, c.entries = temp.Currency, temp.Entries
	return nil
}
