package date

import "time"

// Clock tells what day it is. Every "no future date" rule is checked against it.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in the local time zone.
type SystemClock struct{}

// Today returns the current date.
func (SystemClock) Today() Date { return Of(time.Now()) }

// Fixed is a Clock frozen on a given day.
type Fixed Date

// Today returns the frozen day.
func (f Fixed) Today() Date { return Date(f) }

// Today returns the current date according to the system clock.
func Today() Date { return SystemClock{}.Today() }
