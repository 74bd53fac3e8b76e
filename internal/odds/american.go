// Package odds converts American-format odds strings into implied
// probabilities and payouts. Only American odds are handled; decimal and
// fractional quoting is not supported.
package odds

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidOddsFormat is returned for odds strings that don't parse as a
	// signed integer, or parse to zero (American odds are never zero).
	ErrInvalidOddsFormat = errors.New("invalid american odds format")

	// ErrInvalidStake is returned for stakes that are negative or not finite.
	ErrInvalidStake = errors.New("invalid stake amount")
)

// ParseAmerican parses an American odds string like "+120" or "-150".
func ParseAmerican(oddsStr string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(oddsStr))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOddsFormat, oddsStr)
	}
	if value == 0 {
		return 0, fmt.Errorf("%w: odds cannot be zero", ErrInvalidOddsFormat)
	}
	return value, nil
}

// ImpliedProbability converts an American odds string to the break-even win
// probability it implies, ignoring bookmaker margin. The result is always in
// (0, 1) exclusive: +100 and -100 both map to 0.5.
func ImpliedProbability(oddsStr string) (float64, error) {
	value, err := ParseAmerican(oddsStr)
	if err != nil {
		return 0, err
	}
	if value > 0 {
		return 100.0 / (float64(value) + 100.0), nil
	}
	return float64(-value) / (float64(-value) + 100.0), nil
}

// Payout computes the profit on a winning bet of stake at the quoted odds,
// rounded to cents for display. Positive odds pay stake*odds/100, negative
// odds pay stake*100/|odds|.
func Payout(oddsStr string, stake float64) (float64, error) {
	if math.IsNaN(stake) || math.IsInf(stake, 0) || stake < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidStake, stake)
	}
	value, err := ParseAmerican(oddsStr)
	if err != nil {
		return 0, err
	}

	var profit float64
	if value > 0 {
		profit = stake * float64(value) / 100.0
	} else {
		profit = stake * 100.0 / float64(-value)
	}
	return math.Round(profit*100) / 100, nil
}
