package portfolio

import (
	"errors"
	"fmt"

	"github.com/FredPerr/gesport/date"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrFutureDate            = errors.New("date is in the future")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInsufficientQuantity  = errors.New("insufficient quantity")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidSymbol         = errors.New("symbol is missing")
	ErrInvalidName           = errors.New("invalid portfolio name")
	ErrPastHorizon           = errors.New("projection date is in the past")
	ErrNoPrice               = errors.New("no price available")
)

// FutureDateError is returned by every date-bearing operation called with a
// date strictly after today.
type FutureDateError struct {
	Date  date.Date
	Today date.Date
}

func (e *FutureDateError) Error() string {
	return fmt.Sprintf("%s is after today (%s)", e.Date, e.Today)
}

func (e *FutureDateError) Is(target error) bool { return target == ErrFutureDate }

// InsufficientLiquidityError is returned when a purchase costs more than the
// cash balance on the purchase date.
type InsufficientLiquidityError struct {
	Date    date.Date
	Symbol  string
	Cost    Money
	Balance Money
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("on %s, cannot buy %s for %s, cash balance is %s", e.Date, e.Symbol, e.Cost, e.Balance)
}

func (e *InsufficientLiquidityError) Is(target error) bool { return target == ErrInsufficientLiquidity }

// InsufficientQuantityError is returned when a sale exceeds the position held
// on the sale date.
type InsufficientQuantityError struct {
	Date      date.Date
	Symbol    string
	Requested Quantity
	Held      Quantity
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %v of %s, position is only %v", e.Date, e.Requested, e.Symbol, e.Held)
}

func (e *InsufficientQuantityError) Is(target error) bool { return target == ErrInsufficientQuantity }

// checkNotFuture returns a *FutureDateError if on is after today.
func checkNotFuture(on, today date.Date) error {
	if on.After(today) {
		return &FutureDateError{Date: on, Today: today}
	}
	return nil
}

// CheckNotFuture is the exported form of the future date rule, for price
// oracles that must apply it too.
func CheckNotFuture(on date.Date, clock date.Clock) error {
	return checkNotFuture(on, clock.Today())
}
