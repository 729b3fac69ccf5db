package domain

import (
	"strconv"

	dErrors "leasebook/pkg/domain-errors"
)

// Amount is a money value in integer cents of the marketplace currency.
// Signed so that reconciliation arithmetic can compare before subtracting;
// domain amounts (prices, payments, credits) are never negative.
type Amount int64

// ParseAmount constructs an Amount from external input.
//
// Errors: returns CodeInvalidInput when the value is not a non-negative
// integer.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount cannot be empty")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount must be an integer number of cents")
	}
	if v < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount cannot be negative")
	}
	return Amount(v), nil
}

// IsValid reports whether the amount is usable as a price or payment.
func (a Amount) IsValid() bool { return a >= 0 }

// String returns the amount in cents as a decimal string.
func (a Amount) String() string { return strconv.FormatInt(int64(a), 10) }
