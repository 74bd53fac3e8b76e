package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/stitts-dev/golf-edge/internal/models"
	"github.com/stitts-dev/golf-edge/internal/odds"
	"github.com/stitts-dev/golf-edge/internal/reconcile"
)

var (
	// ErrUnknownBookmaker is returned when a selection names a bookmaker key
	// the matchup doesn't quote, or the reserved model source. The prior
	// selection is retained.
	ErrUnknownBookmaker = errors.New("unknown bookmaker")

	// ErrNoMatchupSelected is returned for mutations that need a matchup first.
	ErrNoMatchupSelected = errors.New("no matchup selected")
)

// Selection holds the user's current pick: which matchup, which side, which
// bookmaker, and the stake. The quoted odds are always derived from
// (matchup, bookmaker, pickIsP1) inside the mutators, never settable from
// outside, so the state can't go transiently inconsistent.
type Selection struct {
	matchup    *models.Matchup
	pickIsP1   bool
	bookmaker  string
	quotedOdds string
	stake      float64
	stakeSet   bool

	p1Golfer *models.Golfer
	p2Golfer *models.Golfer
}

// Reset returns the selection to the empty state. The stake survives a reset
// so a refresh doesn't wipe the amount the user typed in.
func (s *Selection) Reset() {
	s.matchup = nil
	s.pickIsP1 = true
	s.bookmaker = ""
	s.quotedOdds = ""
	s.p1Golfer = nil
	s.p2Golfer = nil
}

// SelectMatchup picks a matchup: side defaults to P1, the bookmaker defaults
// to the first non-model book in feed order, and both golfer records are
// resolved against the roster. Resolution can't fail for a matchup that came
// through the filter, but a miss degrades to a nil golfer rather than an
// error.
func (s *Selection) SelectMatchup(m *models.Matchup, roster []models.Golfer) {
	s.matchup = m
	s.pickIsP1 = true
	s.bookmaker = ""
	if books := m.AvailableBookmakers(); len(books) > 0 {
		s.bookmaker = books[0]
	}
	s.resolveGolfers(roster)
	s.deriveOdds()
}

// Rebind swaps in a fresh snapshot of the same matchup after a feed or roster
// refresh, keeping the picked side and bookmaker when the new snapshot still
// quotes that bookmaker.
func (s *Selection) Rebind(m *models.Matchup, roster []models.Golfer) {
	s.matchup = m
	if _, ok := m.Odds.Get(s.bookmaker); !ok || s.bookmaker == models.ModelSource {
		s.bookmaker = ""
		if books := m.AvailableBookmakers(); len(books) > 0 {
			s.bookmaker = books[0]
		}
	}
	s.resolveGolfers(roster)
	s.deriveOdds()
}

// SetBookmaker overrides the chosen bookmaker. The key must be quoted by the
// selected matchup and must not be the reserved model source.
func (s *Selection) SetBookmaker(book string) error {
	if s.matchup == nil {
		return ErrNoMatchupSelected
	}
	if book == models.ModelSource {
		return fmt.Errorf("%w: %q is the model reference line", ErrUnknownBookmaker, book)
	}
	if _, ok := s.matchup.Odds.Get(book); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBookmaker, book)
	}
	s.bookmaker = book
	s.deriveOdds()
	return nil
}

// SetPickSide toggles which participant is the user's pick. The golfer
// records stay bound to p1/p2; only the your-pick mapping changes.
func (s *Selection) SetPickSide(isP1 bool) {
	s.pickIsP1 = isP1
	s.deriveOdds()
}

// SetStake stores the stake amount. Negative or non-finite values are
// rejected and the previous valid stake is retained.
func (s *Selection) SetStake(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", odds.ErrInvalidStake, amount)
	}
	s.stake = amount
	s.stakeSet = true
	return nil
}

func (s *Selection) resolveGolfers(roster []models.Golfer) {
	s.p1Golfer = nil
	s.p2Golfer = nil
	if s.matchup == nil {
		return
	}
	if g, ok := reconcile.FindGolfer(s.matchup.P1Name, roster); ok {
		s.p1Golfer = g
	}
	if g, ok := reconcile.FindGolfer(s.matchup.P2Name, roster); ok {
		s.p2Golfer = g
	}
}

func (s *Selection) deriveOdds() {
	s.quotedOdds = ""
	if s.matchup == nil || s.bookmaker == "" {
		return
	}
	// Half-priced entries count as incomplete and yield no quote at all.
	quote, ok := s.matchup.Odds.Get(s.bookmaker)
	if !ok || !quote.Complete() {
		return
	}
	if s.pickIsP1 {
		s.quotedOdds = quote.P1
	} else {
		s.quotedOdds = quote.P2
	}
}

// Matchup returns the selected matchup, or nil when empty.
func (s *Selection) Matchup() *models.Matchup { return s.matchup }

// PickIsP1 reports whether the pick is the first-listed participant.
func (s *Selection) PickIsP1() bool { return s.pickIsP1 }

// Bookmaker returns the chosen bookmaker key, empty when none is available.
func (s *Selection) Bookmaker() string { return s.bookmaker }

// QuotedOdds returns the derived odds string for the current pick, empty when
// no quote applies.
func (s *Selection) QuotedOdds() string { return s.quotedOdds }

// Stake returns the stored stake amount.
func (s *Selection) Stake() float64 { return s.stake }

// HasStake reports whether a stake has ever been set.
func (s *Selection) HasStake() bool { return s.stakeSet }

// YourGolfer returns the golfer record for the picked side, nil if unresolved.
func (s *Selection) YourGolfer() *models.Golfer {
	if s.pickIsP1 {
		return s.p1Golfer
	}
	return s.p2Golfer
}

// OpponentGolfer returns the golfer record for the other side.
func (s *Selection) OpponentGolfer() *models.Golfer {
	if s.pickIsP1 {
		return s.p2Golfer
	}
	return s.p1Golfer
}
