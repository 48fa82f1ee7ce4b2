package fintrack

import (
	"github.com/etnz/fintrack/date"
)

// DefaultPerformanceDays is the number of daily points shown in a performance chart.
const DefaultPerformanceDays = 7

// Performance is the daily history of the portfolio net worth.
type Performance struct {
	date.History[Money]
}

// Record stores the net worth of v on day. A later record on the same day
// replaces the earlier one.
func (p *Performance) Record(day date.Date, v Valuation) {
	p.Append(day, v.NetWorth())
}

// Last returns the n most recent points.
func (p *Performance) Last(n int) *date.History[Money] {
	return p.Tail(n)
}

// Change returns the net worth change between the first and the last of the
// n most recent points.
func (p *Performance) Change(n int) (Money, Percent) {
	tail := p.Tail(n)
	var first, last Money
	i := 0
	for _, v := range tail.Values() {
		if i == 0 {
			first = v
		}
		last = v
		i++
	}
	if i == 0 {
		return Money{}, 0
	}
	diff := last.Sub(first)
	return diff, diff.Ratio(first)
}
