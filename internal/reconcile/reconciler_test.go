package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-edge/internal/models"
)

func roster(names ...string) []models.Golfer {
	golfers := make([]models.Golfer, len(names))
	for i, name := range names {
		golfers[i] = models.Golfer{Name: name}
	}
	return golfers
}

func matchup(p1, p2 string) models.Matchup {
	return models.Matchup{P1Name: p1, P2Name: p2, Ties: models.TiesVoid}
}

func TestFindGolferIgnoresCaseAndWhitespace(t *testing.T) {
	r := roster("Jon Rahm", "Scottie Scheffler")

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"exact", "Jon Rahm", "Jon Rahm", true},
		{"upper case", "JON RAHM", "Jon Rahm", true},
		{"padded", "  jon rahm  ", "Jon Rahm", true},
		{"mixed", " Scottie SCHEFFLER", "Scottie Scheffler", true},
		{"missing", "Rory McIlroy", "", false},
		{"internal spacing differs", "Jon  Rahm", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := FindGolfer(tt.query, r)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				require.NotNil(t, g)
				assert.Equal(t, tt.want, g.Name)
			}
		})
	}
}

func TestFindGolferEmptyRoster(t *testing.T) {
	g, ok := FindGolfer("Jon Rahm", nil)
	assert.False(t, ok)
	assert.Nil(t, g)
}

func TestFilterResolvableKeepsOrder(t *testing.T) {
	matchups := []models.Matchup{
		matchup("Jon Rahm", "Scottie Scheffler"),
		matchup("Rory McIlroy", "Viktor Hovland"),
		matchup("Scottie Scheffler", "Viktor Hovland"),
	}
	r := roster("jon rahm", "SCOTTIE SCHEFFLER", "Viktor Hovland")

	result := FilterResolvable(matchups, r)

	require.Len(t, result.Resolved, 2)
	assert.Equal(t, "Jon Rahm", result.Resolved[0].P1Name)
	assert.Equal(t, "Scottie Scheffler", result.Resolved[1].P1Name)
	assert.Equal(t, []string{"Rory McIlroy"}, result.UnresolvedNames)
}

func TestFilterResolvableDeduplicatesUnresolved(t *testing.T) {
	matchups := []models.Matchup{
		matchup("Rory McIlroy", "Jon Rahm"),
		matchup("rory mcilroy", "Scottie Scheffler"),
		matchup("RORY MCILROY", "Ludvig Aberg"),
	}
	r := roster("Jon Rahm", "Scottie Scheffler")

	result := FilterResolvable(matchups, r)

	assert.Empty(t, result.Resolved)
	// First-seen casing is kept; later variants collapse into it.
	assert.Equal(t, []string{"Rory McIlroy", "Ludvig Aberg"}, result.UnresolvedNames)
}

func TestFilterResolvableEmptyRoster(t *testing.T) {
	matchups := []models.Matchup{
		matchup("Jon Rahm", "Scottie Scheffler"),
	}

	result := FilterResolvable(matchups, nil)

	assert.Empty(t, result.Resolved)
	assert.Equal(t, []string{"Jon Rahm", "Scottie Scheffler"}, result.UnresolvedNames)
}

func TestMatchupIsResolvable(t *testing.T) {
	r := roster("Jon Rahm", "Scottie Scheffler")

	m := matchup(" JON RAHM ", "scottie scheffler")
	assert.True(t, MatchupIsResolvable(&m, r))

	m2 := matchup("Jon Rahm", "Rory McIlroy")
	assert.False(t, MatchupIsResolvable(&m2, r))
}
