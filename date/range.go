package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to] or an error if it is empty.
func NewRange(from, to Date) (Range, error) {
	if to.Before(from) {
		return Range{}, fmt.Errorf("invalid range: %s is before %s", to, from)
	}
	return Range{From: from, To: to}, nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns the number of days in the range, both boundaries included.
func (r Range) Days() int { return r.To.Sub(r.From) + 1 }

// Every yields the dates of the range every step days, starting at From.
// To is always yielded last, even when it is not on a step boundary.
func (r Range) Every(step int) iter.Seq[Date] {
	if step < 1 {
		step = 1
	}
	return func(yield func(Date) bool) {
		on := r.From
		for ; on.Before(r.To); on = on.Add(step) {
			if !yield(on) {
				return
			}
		}
		yield(r.To)
	}
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
