package date

import (
	"encoding/json"
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value
	}
	return h.days[last], h.values[last]
}

// Append adds a point to the history.
//
// Existing value at that date is overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var value T
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if !found {
		return value, false
	}
	return h.values[i], true
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		var zero T
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Tail returns a history with at most the n most recent points.
func (h *History[T]) Tail(n int) *History[T] {
	start := max(len(h.days)-n, 0)
	return &History[T]{
		days:   slices.Clone(h.days[start:]),
		values: slices.Clone(h.values[start:]),
	}
}

type point[T any] struct {
	On    Date `json:"on"`
	Value T    `json:"value"`
}

// MarshalJSON encodes the history as a chronological list of points.
func (h *History[T]) MarshalJSON() ([]byte, error) {
	points := make([]point[T], 0, len(h.days))
	for on, v := range h.Values() {
		points = append(points, point[T]{on, v})
	}
	return json.Marshal(points)
}

func (h *History[T]) UnmarshalJSON(data []byte) error {
	var points []point[T]
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	h.days, h.values = nil, nil
	for _, p := range points {
		h.Append(p.On, p.Value)
	}
	return nil
}
