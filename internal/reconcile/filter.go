package reconcile

import (
	"github.com/stitts-dev/golf-edge/internal/models"
)

// FilterResult is the outcome of one bulk reconciliation pass.
type FilterResult struct {
	// Resolved keeps the feed's relative order; no reordering happens.
	Resolved []models.Matchup

	// UnresolvedNames lists the distinct feed names that found no roster
	// counterpart, case-preserved as they first appeared. Diagnostics only;
	// an unresolved name is never a blocking error.
	UnresolvedNames []string
}

// KeyOf builds the identity key the selection layer correlates matchups by.
func KeyOf(m *models.Matchup) string {
	return m.Key()
}

// FilterResolvable keeps only matchups whose both participants resolve
// against the roster. An empty roster simply resolves nothing; that is the
// normal state before golfer statistics have loaded.
func FilterResolvable(matchups []models.Matchup, roster []models.Golfer) FilterResult {
	var result FilterResult
	seen := make(map[string]bool)

	unresolved := func(name string) {
		key := normalize(name)
		if !seen[key] {
			seen[key] = true
			result.UnresolvedNames = append(result.UnresolvedNames, name)
		}
	}

	for i := range matchups {
		m := &matchups[i]
		_, p1OK := FindGolfer(m.P1Name, roster)
		_, p2OK := FindGolfer(m.P2Name, roster)
		if p1OK && p2OK {
			result.Resolved = append(result.Resolved, *m)
			continue
		}
		if !p1OK {
			unresolved(m.P1Name)
		}
		if !p2OK {
			unresolved(m.P2Name)
		}
	}
	return result
}
