// Package engine holds the reconciliation-and-edge core: it keeps the latest
// feed and roster snapshots, filters matchups down to the resolvable ones,
// owns the selection state machine, and derives the betting metrics the API
// layer serves. All recomputation is synchronous inside the mutators; the
// mutex only serializes concurrent HTTP handlers, there is no internal
// parallelism.
package engine

import (
	"errors"
	"sync"

	"github.com/stitts-dev/golf-edge/internal/models"
	"github.com/stitts-dev/golf-edge/internal/reconcile"
)

// ErrUnknownMatchup is returned when a selection names a key absent from the
// current filtered list.
var ErrUnknownMatchup = errors.New("unknown matchup")

// Engine is the single owner of reconciled matchup state.
type Engine struct {
	mu sync.Mutex

	feed   *models.FeedResponse
	roster []models.Golfer

	filtered   []models.Matchup
	unresolved []string
	status     string

	sel Selection
}

// New creates an empty engine. Feed and roster arrive later, in either order.
func New() *Engine {
	return &Engine{}
}

// UpdateFeed replaces the feed snapshot and re-runs reconciliation. A feed
// whose match list is a notice string is not an error: the notice becomes the
// status and the matchup set goes empty.
func (e *Engine) UpdateFeed(feed *models.FeedResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feed = feed
	e.reconcile()
}

// UpdateRoster replaces the golfer roster and re-runs reconciliation. An
// empty roster means statistics haven't loaded yet; nothing resolves until
// they do.
func (e *Engine) UpdateRoster(roster []models.Golfer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.roster = roster
	e.reconcile()
}

// reconcile re-derives the filtered list from the current snapshots and keeps
// the selection consistent with it: a selection whose key survived is rebound
// to the fresh matchup, one whose key vanished is reset. Callers hold e.mu.
func (e *Engine) reconcile() {
	e.filtered = nil
	e.unresolved = nil
	e.status = ""

	if e.feed == nil {
		e.sel.Reset()
		return
	}
	if notice := e.feed.MatchList.Notice; notice != "" {
		e.status = notice
		e.sel.Reset()
		return
	}
	if len(e.roster) == 0 {
		e.sel.Reset()
		return
	}

	result := reconcile.FilterResolvable(e.feed.MatchList.Matchups, e.roster)
	e.filtered = result.Resolved
	e.unresolved = result.UnresolvedNames

	if e.sel.Matchup() == nil {
		return
	}
	if m := e.lookupByKey(reconcile.KeyOf(e.sel.Matchup())); m != nil {
		e.sel.Rebind(m, e.roster)
	} else {
		e.sel.Reset()
	}
}

// lookupByKey returns the last filtered matchup with the given key, or nil.
// Duplicate keys shadow earlier entries for selection purposes.
func (e *Engine) lookupByKey(key string) *models.Matchup {
	for i := len(e.filtered) - 1; i >= 0; i-- {
		if reconcile.KeyOf(&e.filtered[i]) == key {
			return &e.filtered[i]
		}
	}
	return nil
}

// SelectMatchup picks a matchup by identity key from the filtered list.
func (e *Engine) SelectMatchup(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.lookupByKey(key)
	if m == nil {
		return ErrUnknownMatchup
	}
	e.sel.SelectMatchup(m, e.roster)
	return nil
}

// SetBookmaker overrides the selection's bookmaker.
func (e *Engine) SetBookmaker(book string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.SetBookmaker(book)
}

// SetPickSide toggles which side of the matchup is the pick.
func (e *Engine) SetPickSide(isP1 bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sel.Matchup() == nil {
		return ErrNoMatchupSelected
	}
	e.sel.SetPickSide(isP1)
	return nil
}

// SetStake stores the stake amount used for payout projection.
func (e *Engine) SetStake(amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.SetStake(amount)
}

// View assembles the presentation snapshot: event metadata, the filtered
// matchups, the selection with its derived metrics, and any status notice.
func (e *Engine) View() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Status:          e.status,
		Matchups:        append([]models.Matchup(nil), e.filtered...),
		UnresolvedNames: append([]string(nil), e.unresolved...),
	}
	if e.feed != nil {
		snap.EventName = e.feed.EventName
		snap.LastUpdated = e.feed.LastUpdated
		snap.Market = e.feed.Market
		snap.OfferedCount = len(e.feed.MatchList.Matchups)
	}
	if m := e.sel.Matchup(); m != nil {
		view := SelectionView{
			MatchupKey: reconcile.KeyOf(m),
			PickIsP1:   e.sel.PickIsP1(),
			Bookmaker:  e.sel.Bookmaker(),
			QuotedOdds: e.sel.QuotedOdds(),
			YourGolfer: e.sel.YourGolfer(),
			Opponent:   e.sel.OpponentGolfer(),
		}
		if e.sel.HasStake() {
			stake := e.sel.Stake()
			view.Stake = &stake
		}
		if edge, ok := EdgePercent(&e.sel); ok {
			view.EdgePercent = &edge
		}
		if payout, ok := PotentialPayout(&e.sel); ok {
			view.PotentialPayout = &payout
		}
		snap.Selection = &view
	}
	return snap
}

// Snapshot is what the presentation layer gets: everything derived, nothing
// settable.
type Snapshot struct {
	EventName       string           `json:"event_name"`
	LastUpdated     string           `json:"last_updated"`
	Market          string           `json:"market"`
	Status          string           `json:"status,omitempty"`
	OfferedCount    int              `json:"offered_count"`
	Matchups        []models.Matchup `json:"matchups"`
	UnresolvedNames []string         `json:"unresolved_names,omitempty"`
	Selection       *SelectionView   `json:"selection,omitempty"`
}

// SelectionView is the serialized selection state. Metric pointers are nil
// when the metric is unavailable; the client renders a placeholder.
type SelectionView struct {
	MatchupKey      string         `json:"matchup_key"`
	PickIsP1        bool           `json:"pick_is_p1"`
	Bookmaker       string         `json:"bookmaker,omitempty"`
	QuotedOdds      string         `json:"quoted_odds,omitempty"`
	Stake           *float64       `json:"stake,omitempty"`
	EdgePercent     *float64       `json:"edge_percent,omitempty"`
	PotentialPayout *float64       `json:"potential_payout,omitempty"`
	YourGolfer      *models.Golfer `json:"your_golfer,omitempty"`
	Opponent        *models.Golfer `json:"opponent_golfer,omitempty"`
}
