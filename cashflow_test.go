package fintrack

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/etnz/fintrack/date"
)

func TestCashFlow_Summary(t *testing.T) {
	c := NewCashFlow("USD")
	entries := []Entry{
		{Kind: Income, Source: Fixed, Amount: USD(5000), Label: "Salary", Date: date.New(2025, time.March, 1)},
		{Kind: Income, Source: Variable, Amount: USD(800), Label: "Freelance", Date: date.New(2025, time.March, 12)},
		{Kind: Expense, Amount: USD(1200), Label: "Rent", Date: date.New(2025, time.March, 2)},
		{Kind: Expense, Amount: USD(300), Label: "Groceries", Date: date.New(2025, time.March, 20)},
		{Kind: Expense, Amount: USD(90), Label: "Utilities", Date: date.New(2025, time.February, 27)},
	}
	for _, e := range entries {
		if _, err := c.Add(e); err != nil {
			t.Fatalf("Add(%s) error = %v", e.Label, err)
		}
	}

	s := c.Summary(date.NewRange(date.New(2025, time.March, 15), date.Monthly))
	if !s.TotalIncome.Equal(USD(5800)) || !s.FixedIncome.Equal(USD(5000)) || !s.VariableIncome.Equal(USD(800)) {
		t.Errorf("income = %v (%v fixed, %v variable)", s.TotalIncome, s.FixedIncome, s.VariableIncome)
	}
	if !s.TotalExpenses.Equal(USD(1500)) {
		t.Errorf("expenses = %v, want 1500", s.TotalExpenses)
	}
	if !s.Savings().Equal(USD(4300)) {
		t.Errorf("savings = %v, want 4300", s.Savings())
	}

	var labels []string
	for e := range c.Entries(OfKind(Expense)) {
		labels = append(labels, e.Label)
	}
	if want := []string{"Utilities", "Rent", "Groceries"}; !slices.Equal(labels, want) {
		t.Errorf("expenses = %v, want %v", labels, want)
	}
}

func TestCashFlow_UpdateDelete(t *testing.T) {
	c := NewCashFlow("USD")
	e, err := c.Add(Entry{Kind: Expense, Amount: USD(50), Label: "Groceries"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Date.IsZero() || e.ID == "" {
		t.Errorf("Add() = %+v, want an ID and today's date", e)
	}
	u, err := c.Update(e.ID, Entry{Kind: Expense, Amount: USD(65), Label: "Groceries"})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != e.ID || u.Date != e.Date || !u.Amount.Equal(USD(65)) {
		t.Errorf("Update() = %+v", u)
	}
	if err := c.Delete(e.ID); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after delete", c.Len())
	}
	if _, err := c.Update(e.ID, u); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(deleted) error = %v, want %v", err, ErrNotFound)
	}
}

func TestCashFlow_Invalid(t *testing.T) {
	c := NewCashFlow("USD")
	for _, e := range []Entry{
		{Kind: Income, Amount: USD(10), Label: "Salary"},                   // no source
		{Kind: Expense, Amount: USD(0), Label: "Rent"},                     // zero
		{Kind: Expense, Amount: EUR(10), Label: "Rent"},                    // currency
		{Kind: Expense, Amount: USD(10), Label: ""},                        // label
		{Kind: "transfer", Source: Fixed, Amount: USD(10), Label: "Other"}, // kind
	} {
		if _, err := c.Add(e); !errors.Is(err, ErrValidation) {
			t.Errorf("Add(%+v) error = %v, want %v", e, err, ErrValidation)
		}
	}
}

func TestSuggestedLabels(t *testing.T) {
	if got := SuggestedLabels(Income, Fixed); !slices.Contains(got, "Rental Income") {
		t.Errorf("fixed income labels = %v", got)
	}
	if got := SuggestedLabels(Expense, ""); !slices.Contains(got, "Utilities") {
		t.Errorf("expense labels = %v", got)
	}
}
