package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-edge/internal/models"
)

func testRoster(names ...string) []models.Golfer {
	golfers := make([]models.Golfer, len(names))
	for i, name := range names {
		golfers[i] = models.Golfer{Name: name, StrokesGainedTotal: 1.5}
	}
	return golfers
}

func testMatchup(p1, p2 string, books map[string]models.OddsQuote, order ...string) models.Matchup {
	m := models.Matchup{P1Name: p1, P2Name: p2, Ties: models.TiesVoid}
	for _, book := range order {
		m.Odds.Set(book, books[book])
	}
	return m
}

func rahmSchefflerMatchup() models.Matchup {
	return testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			models.ModelSource: {P1: "-110", P2: "-110"},
			"bet365":           {P1: "+105", P2: "-130"},
			"fanduel":          {P1: "-102", P2: "-118"},
		},
		models.ModelSource, "bet365", "fanduel",
	)
}

func testFeed(matchups ...models.Matchup) *models.FeedResponse {
	return &models.FeedResponse{
		EventName:   "The Open Championship",
		LastUpdated: "2024-07-18 09:30:00 UTC",
		Market:      "tournament_matchups",
		MatchList:   models.MatchList{Matchups: matchups},
	}
}

func newLoadedEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	e.UpdateFeed(testFeed(rahmSchefflerMatchup()))
	e.UpdateRoster(testRoster("Jon Rahm", "Scottie Scheffler"))
	return e
}

func TestViewEmptyUntilBothSnapshotsArrive(t *testing.T) {
	e := New()

	snap := e.View()
	assert.Empty(t, snap.Matchups)
	assert.Nil(t, snap.Selection)

	e.UpdateFeed(testFeed(rahmSchefflerMatchup()))
	snap = e.View()
	assert.Empty(t, snap.Matchups, "no roster yet, nothing resolves")

	e.UpdateRoster(testRoster("Jon Rahm", "Scottie Scheffler"))
	snap = e.View()
	require.Len(t, snap.Matchups, 1)
	assert.Equal(t, "The Open Championship", snap.EventName)
	assert.Equal(t, 1, snap.OfferedCount)
}

func TestSelectMatchupDefaults(t *testing.T) {
	e := newLoadedEngine(t)

	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.True(t, snap.Selection.PickIsP1)
	// First non-model book in feed order becomes the default.
	assert.Equal(t, "bet365", snap.Selection.Bookmaker)
	assert.Equal(t, "+105", snap.Selection.QuotedOdds)
	require.NotNil(t, snap.Selection.YourGolfer)
	assert.Equal(t, "Jon Rahm", snap.Selection.YourGolfer.Name)
	require.NotNil(t, snap.Selection.Opponent)
	assert.Equal(t, "Scottie Scheffler", snap.Selection.Opponent.Name)
}

func TestSelectMatchupUnknownKey(t *testing.T) {
	e := newLoadedEngine(t)

	err := e.SelectMatchup("Rory McIlroy|Viktor Hovland|void")
	assert.ErrorIs(t, err, ErrUnknownMatchup)
	assert.Nil(t, e.View().Selection)
}

func TestEdgeAndPayoutScenario(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	require.NoError(t, e.SetStake(100))

	snap := e.View()
	require.NotNil(t, snap.Selection)

	// Model -110 implies 52.38%, bet365 +105 implies 48.78%: about +3.6 edge.
	require.NotNil(t, snap.Selection.EdgePercent)
	assert.InDelta(t, 3.60, *snap.Selection.EdgePercent, 0.01)

	require.NotNil(t, snap.Selection.PotentialPayout)
	assert.InDelta(t, 105.00, *snap.Selection.PotentialPayout, 0.001)
}

func TestSetPickSideSwitchesOddsNotBookmaker(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	require.NoError(t, e.SetPickSide(false))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.False(t, snap.Selection.PickIsP1)
	assert.Equal(t, "bet365", snap.Selection.Bookmaker)
	assert.Equal(t, "-130", snap.Selection.QuotedOdds)
	assert.Equal(t, "Scottie Scheffler", snap.Selection.YourGolfer.Name)
	assert.Equal(t, "Jon Rahm", snap.Selection.Opponent.Name)
}

func TestSetBookmaker(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	require.NoError(t, e.SetBookmaker("fanduel"))
	snap := e.View()
	assert.Equal(t, "fanduel", snap.Selection.Bookmaker)
	assert.Equal(t, "-102", snap.Selection.QuotedOdds)

	// Unknown keys and the model source are rejected without touching state.
	assert.ErrorIs(t, e.SetBookmaker("draftkings"), ErrUnknownBookmaker)
	assert.ErrorIs(t, e.SetBookmaker(models.ModelSource), ErrUnknownBookmaker)
	snap = e.View()
	assert.Equal(t, "fanduel", snap.Selection.Bookmaker)
	assert.Equal(t, "-102", snap.Selection.QuotedOdds)
}

func TestSetBookmakerWithoutSelection(t *testing.T) {
	e := newLoadedEngine(t)
	assert.ErrorIs(t, e.SetBookmaker("bet365"), ErrNoMatchupSelected)
	assert.ErrorIs(t, e.SetPickSide(false), ErrNoMatchupSelected)
}

func TestEdgeUnavailableWithoutModelQuote(t *testing.T) {
	m := testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			"bet365": {P1: "+105", P2: "-130"},
		},
		"bet365",
	)

	e := New()
	e.UpdateFeed(testFeed(m))
	e.UpdateRoster(testRoster("Jon Rahm", "Scottie Scheffler"))
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, "+105", snap.Selection.QuotedOdds)
	assert.Nil(t, snap.Selection.EdgePercent)
}

func TestIncompleteQuoteYieldsNoOddsOrMetrics(t *testing.T) {
	// bet365 prices only one side; the entry is incomplete and must not quote.
	m := testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			models.ModelSource: {P1: "-110", P2: "-110"},
			"bet365":           {P1: "+105"},
			"fanduel":          {P1: "-102", P2: "-118"},
		},
		models.ModelSource, "bet365", "fanduel",
	)

	e := New()
	e.UpdateFeed(testFeed(m))
	e.UpdateRoster(testRoster("Jon Rahm", "Scottie Scheffler"))
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	require.NoError(t, e.SetStake(100))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, "bet365", snap.Selection.Bookmaker)
	assert.Empty(t, snap.Selection.QuotedOdds)
	assert.Nil(t, snap.Selection.EdgePercent)
	assert.Nil(t, snap.Selection.PotentialPayout)

	// A complete entry from the same matchup works as usual.
	require.NoError(t, e.SetBookmaker("fanduel"))
	snap = e.View()
	assert.Equal(t, "-102", snap.Selection.QuotedOdds)
	assert.NotNil(t, snap.Selection.EdgePercent)
}

func TestNoticeFeedClearsMatchupsAndSelection(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	e.UpdateFeed(&models.FeedResponse{
		EventName: "The Open Championship",
		Market:    "tournament_matchups",
		MatchList: models.MatchList{Notice: "matchups not available for this event"},
	})

	snap := e.View()
	assert.Equal(t, "matchups not available for this event", snap.Status)
	assert.Empty(t, snap.Matchups)
	assert.Nil(t, snap.Selection)
}

func TestRosterShrinkResetsSelection(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	e.UpdateRoster(testRoster("Jon Rahm"))

	snap := e.View()
	assert.Empty(t, snap.Matchups)
	assert.Nil(t, snap.Selection)
}

func TestFeedRefreshRebindsSurvivingSelection(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	require.NoError(t, e.SetBookmaker("fanduel"))
	require.NoError(t, e.SetPickSide(false))

	// Same matchup key, fresher prices.
	refreshed := testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			models.ModelSource: {P1: "-112", P2: "-108"},
			"bet365":           {P1: "+110", P2: "-135"},
			"fanduel":          {P1: "+100", P2: "-122"},
		},
		models.ModelSource, "bet365", "fanduel",
	)
	e.UpdateFeed(testFeed(refreshed))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.False(t, snap.Selection.PickIsP1)
	assert.Equal(t, "fanduel", snap.Selection.Bookmaker)
	assert.Equal(t, "-122", snap.Selection.QuotedOdds)
}

func TestFeedRefreshDropsVanishedBookmaker(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	require.NoError(t, e.SetBookmaker("fanduel"))

	refreshed := testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			models.ModelSource: {P1: "-110", P2: "-110"},
			"bet365":           {P1: "+102", P2: "-125"},
		},
		models.ModelSource, "bet365",
	)
	e.UpdateFeed(testFeed(refreshed))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, "bet365", snap.Selection.Bookmaker)
	assert.Equal(t, "+102", snap.Selection.QuotedOdds)
}

func TestStakeSurvivesSelectionReset(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	require.NoError(t, e.SetStake(50))

	e.UpdateFeed(&models.FeedResponse{
		MatchList: models.MatchList{Notice: "matchups not available"},
	})
	e.UpdateFeed(testFeed(rahmSchefflerMatchup()))
	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))

	snap := e.View()
	require.NotNil(t, snap.Selection)
	require.NotNil(t, snap.Selection.Stake)
	assert.Equal(t, 50.0, *snap.Selection.Stake)
}

func TestSetStakeRejectsInvalid(t *testing.T) {
	e := newLoadedEngine(t)
	require.NoError(t, e.SetStake(25))

	assert.Error(t, e.SetStake(-1))

	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	snap := e.View()
	require.NotNil(t, snap.Selection.Stake)
	assert.Equal(t, 25.0, *snap.Selection.Stake)
}

func TestDuplicateKeyLastEntryWins(t *testing.T) {
	first := rahmSchefflerMatchup()
	second := testMatchup("Jon Rahm", "Scottie Scheffler",
		map[string]models.OddsQuote{
			models.ModelSource: {P1: "-115", P2: "-105"},
			"bet365":           {P1: "+120", P2: "-145"},
		},
		models.ModelSource, "bet365",
	)

	e := New()
	e.UpdateFeed(testFeed(first, second))
	e.UpdateRoster(testRoster("Jon Rahm", "Scottie Scheffler"))

	require.NoError(t, e.SelectMatchup("Jon Rahm|Scottie Scheffler|void"))
	snap := e.View()
	assert.Equal(t, "+120", snap.Selection.QuotedOdds)
}
