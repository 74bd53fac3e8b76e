// Package reconcile matches free-text player names between the betting
// matchup feed and the golfer statistics roster. Matching is exact equality
// after trimming and case-folding; there is no fuzzy matching, so a feed name
// either resolves or it doesn't.
package reconcile

import (
	"strings"

	"github.com/stitts-dev/golf-edge/internal/models"
)

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindGolfer returns the first roster entry whose normalized name equals the
// normalized feed name. Absence is an expected outcome, not an error.
func FindGolfer(name string, roster []models.Golfer) (*models.Golfer, bool) {
	want := normalize(name)
	for i := range roster {
		if normalize(roster[i].Name) == want {
			return &roster[i], true
		}
	}
	return nil, false
}

// MatchupIsResolvable reports whether both participants of a matchup resolve
// against the roster.
func MatchupIsResolvable(m *models.Matchup, roster []models.Golfer) bool {
	_, p1OK := FindGolfer(m.P1Name, roster)
	_, p2OK := FindGolfer(m.P2Name, roster)
	return p1OK && p2OK
}
