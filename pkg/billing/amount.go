package billing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for negative, non-numeric or out-of-range amounts.
var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Round builds 10^|exp|; amounts outside these bounds are rejected before
// any arithmetic.
const (
	maxExponent = 18
	maxDigits   = 36

	maxLiteralLen = 64
)

func inRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	return exp <= maxExponent && exp >= -maxExponent && amount.NumDigits() <= maxDigits
}

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !inRange(amount) {
		return 0, fmt.Errorf("%w: magnitude or precision out of range", ErrInvalidAmount)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount.String())
	}
	minor := amount.Mul(hundred).Round(0)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, amount.String())
	}
	return minor.IntPart(), nil
}

// ParseMinorUnits parses a decimal literal such as "99.995" or "1e2".
func ParseMinorUnits(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxLiteralLen {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidAmount, truncate(raw))
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, truncate(raw))
	}
	if !inRange(amount) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, truncate(raw))
	}
	return ToMinorUnits(amount)
}

// FloatToMinorUnits uses the shortest decimal representation of f, so 99.995
// is treated as exactly 99.995 and not its binary approximation.
func FloatToMinorUnits(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, f)
	}
	return ToMinorUnits(decimal.NewFromFloat(f))
}

func truncate(raw string) string {
	const max = 32
	if len(raw) <= max {
		return raw
	}
	return raw[:max] + "..."
}
