package engine

import (
	"github.com/stitts-dev/golf-edge/internal/models"
	"github.com/stitts-dev/golf-edge/internal/odds"
)

// EdgePercent computes the model edge for the current pick: the model's
// implied probability minus the chosen bookmaker's, in percentage points.
// Positive means the model thinks the book has underpriced the pick.
//
// Both probabilities are raw implied numbers; neither side is de-vigged. The
// ok result is false whenever any required quote is missing or malformed; a
// bad odds string degrades the metric, it never crashes the computation.
func EdgePercent(sel *Selection) (float64, bool) {
	m := sel.Matchup()
	if m == nil || sel.Bookmaker() == "" {
		return 0, false
	}

	modelQuote, ok := m.Odds.Get(models.ModelSource)
	if !ok || !modelQuote.Complete() {
		return 0, false
	}
	bookQuote, ok := m.Odds.Get(sel.Bookmaker())
	if !ok || !bookQuote.Complete() {
		return 0, false
	}

	modelOdds, bookOdds := modelQuote.P1, bookQuote.P1
	if !sel.PickIsP1() {
		modelOdds, bookOdds = modelQuote.P2, bookQuote.P2
	}

	modelProb, err := odds.ImpliedProbability(modelOdds)
	if err != nil {
		return 0, false
	}
	bookProb, err := odds.ImpliedProbability(bookOdds)
	if err != nil {
		return 0, false
	}

	return (modelProb - bookProb) * 100.0, true
}

// PotentialPayout computes the profit on the current pick at the quoted odds
// for the stored stake. Unavailable until both a quote and a stake exist.
func PotentialPayout(sel *Selection) (float64, bool) {
	if sel.QuotedOdds() == "" || !sel.HasStake() {
		return 0, false
	}
	payout, err := odds.Payout(sel.QuotedOdds(), sel.Stake())
	if err != nil {
		return 0, false
	}
	return payout, true
}
