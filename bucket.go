package fintrack

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// BucketKind tells what a bucket tracks.
type BucketKind string

const (
	ExpenseCategory BucketKind = "expense" // target is a budget, progress is the amount spent
	SavingsGoal     BucketKind = "savings" // target is a goal, progress is the amount saved
	IncomeSource    BucketKind = "income"  // target is expected income, progress is the amount received
)

// ParseBucketKind parses a bucket kind.
func ParseBucketKind(s string) (BucketKind, error) {
	switch k := BucketKind(strings.ToLower(s)); k {
	case ExpenseCategory, SavingsGoal, IncomeSource:
		return k, nil
	}
	switch strings.ToLower(s) {
	case "category", "budget":
		return ExpenseCategory, nil
	case "goal":
		return SavingsGoal, nil
	case "source":
		return IncomeSource, nil
	}
	return "", fmt.Errorf("%w: unknown bucket kind %q", ErrValidation, s)
}

// Bucket is a named amount to reach, with the progress made so far.
type Bucket struct {
	ID       string     `json:"id"`
	Kind     BucketKind `json:"kind"`
	Name     string     `json:"name"`
	Target   Money      `json:"target"`
	Progress Money      `json:"progress"`
}

// Ratio returns the progress relative to the target.
func (b Bucket) Ratio() Percent { return b.Progress.Ratio(b.Target) }

// Remaining returns what is left to reach the target; negative when exceeded.
func (b Bucket) Remaining() Money { return b.Target.Sub(b.Progress) }

// Buckets is the collection of budget categories, savings goals and income
// sources, in creation order.
type Buckets struct {
	currency string
	list     []Bucket
}

// NewBuckets returns an empty collection for amounts in currency.
func NewBuckets(currency string) *Buckets {
	return &Buckets{currency: currency}
}

// DefaultBuckets returns the starter buckets of the mobile app.
func DefaultBuckets(currency string) *Buckets {
	b := NewBuckets(currency)
	seed := []struct {
		kind             BucketKind
		name             string
		target, progress int
	}{
		{ExpenseCategory, "Rent", 1200, 900},
		{ExpenseCategory, "Groceries", 500, 350},
		{ExpenseCategory, "Entertainment", 300, 150},
		{SavingsGoal, "Emergency Fund", 5000, 1500},
		{SavingsGoal, "Vacation", 2000, 800},
		{SavingsGoal, "New Car", 10000, 2500},
		{IncomeSource, "Salary", 5000, 0},
		{IncomeSource, "Freelance", 1000, 0},
	}
	for _, s := range seed {
		created, err := b.Add(s.kind, s.name, M(s.target, currency))
		if err != nil {
			panic(err)
		}
		if s.progress > 0 {
			if _, err := b.Record(created.ID, M(s.progress, currency)); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Currency returns the currency of all amounts.
func (b *Buckets) Currency() string { return b.currency }

func (b *Buckets) index(id string) int {
	return slices.IndexFunc(b.list, func(x Bucket) bool { return x.ID == id })
}

// validate checks name and target for a bucket of kind, ignoring the bucket id itself.
func (b *Buckets) validate(kind BucketKind, name string, target Money, id string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: bucket name is missing", ErrValidation)
	}
	if !target.IsPositive() {
		return fmt.Errorf("%w: target of %q must be positive, got %s", ErrValidation, name, target)
	}
	if target.Currency() != b.currency {
		return fmt.Errorf("%w: target of %q is in %q, want %q", ErrValidation, name, target.Currency(), b.currency)
	}
	for _, x := range b.list {
		if x.ID != id && x.Kind == kind && strings.EqualFold(x.Name, name) {
			return fmt.Errorf("%w: %s bucket %q already exists", ErrValidation, kind, name)
		}
	}
	return nil
}

// Add creates a bucket with no progress.
func (b *Buckets) Add(kind BucketKind, name string, target Money) (Bucket, error) {
	if _, err := ParseBucketKind(string(kind)); err != nil {
		return Bucket{}, err
	}
	name = strings.TrimSpace(name)
	if err := b.validate(kind, name, target, ""); err != nil {
		return Bucket{}, err
	}
	x := Bucket{ID: uuid.NewString(), Kind: kind, Name: name, Target: target, Progress: M(0, b.currency)}
	b.list = append(b.list, x)
	return x, nil
}

// Edit renames a bucket and changes its target. The progress is kept.
func (b *Buckets) Edit(id, name string, target Money) (Bucket, error) {
	i := b.index(id)
	if i < 0 {
		return Bucket{}, fmt.Errorf("%w: bucket %q", ErrNotFound, id)
	}
	name = strings.TrimSpace(name)
	if err := b.validate(b.list[i].Kind, name, target, id); err != nil {
		return Bucket{}, err
	}
	b.list[i].Name, b.list[i].Target = name, target
	return b.list[i], nil
}

// Delete removes a bucket.
func (b *Buckets) Delete(id string) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("%w: bucket %q", ErrNotFound, id)
	}
	b.list = slices.Delete(b.list, i, i+1)
	return nil
}

// Record adds amount to the progress of a bucket.
func (b *Buckets) Record(id string, amount Money) (Bucket, error) {
	i := b.index(id)
	if i < 0 {
		return Bucket{}, fmt.Errorf("%w: bucket %q", ErrNotFound, id)
	}
	if !amount.IsPositive() || amount.Currency() != b.currency {
		return Bucket{}, fmt.Errorf("%w: amount must be a positive %s value, got %s", ErrValidation, b.currency, amount)
	}
	b.list[i].Progress = b.list[i].Progress.Add(amount)
	return b.list[i], nil
}

// Get returns the bucket with id.
func (b *Buckets) Get(id string) (Bucket, bool) {
	i := b.index(id)
	if i < 0 {
		return Bucket{}, false
	}
	return b.list[i], true
}

// Find returns the bucket of kind named name (case insensitive).
func (b *Buckets) Find(kind BucketKind, name string) (Bucket, bool) {
	i := slices.IndexFunc(b.list, func(x Bucket) bool { return x.Kind == kind && strings.EqualFold(x.Name, name) })
	if i < 0 {
		return Bucket{}, false
	}
	return b.list[i], true
}

// List iterates over the buckets of the given kinds, all of them if none is given.
func (b *Buckets) List(kinds ...BucketKind) iter.Seq[Bucket] {
	return func(yield func(Bucket) bool) {
		for _, x := range b.list {
			if len(kinds) > 0 && !slices.Contains(kinds, x.Kind) {
				continue
			}
			if !yield(x) {
				return
			}
		}
	}
}

// Totals returns the sum of targets and progress of the buckets of kind.
func (b *Buckets) Totals(kind BucketKind) (target, progress Money) {
	target, progress = M(0, b.currency), M(0, b.currency)
	for x := range b.List(kind) {
		target = target.Add(x.Target)
		progress = progress.Add(x.Progress)
	}
	return target, progress
}

func (b *Buckets) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", b.currency)
	list := b.list
	if list == nil {
		list = []Bucket{}
	}
	w.Append("buckets", list)
	return w.MarshalJSON()
}

func (b *Buckets) UnmarshalJSON(data []byte) error {
	var temp struct {
		Currency string   `json:"currency"`
		Buckets  []Bucket `json:"buckets"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	b.currency, b.list = temp.Currency, temp.Buckets
	return nil
}
