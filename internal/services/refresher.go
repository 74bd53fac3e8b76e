package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/engine"
	"github.com/stitts-dev/golf-edge/internal/models"
	"github.com/stitts-dev/golf-edge/internal/storage"
)

// FeedSource supplies matchup feed snapshots.
type FeedSource interface {
	GetMatchups(ctx context.Context) (*models.FeedResponse, error)
}

// RosterSource supplies golfer statistics rosters.
type RosterSource interface {
	GetGolfers(ctx context.Context) ([]models.Golfer, error)
}

// SnapshotBroadcaster pushes a fresh engine view to subscribers.
type SnapshotBroadcaster interface {
	BroadcastSnapshot(snapshot interface{})
}

// RefresherService periodically pulls the feed and roster, applies them to
// the engine, and broadcasts the resulting snapshot. Feed and roster fetches
// run concurrently; per-source sequence numbers make sure a slow response
// from an earlier cycle can never overwrite a newer one.
type RefresherService struct {
	feed      FeedSource
	roster    RosterSource
	eng       *engine.Engine
	hub       SnapshotBroadcaster
	store     *storage.Store
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	timeout   time.Duration
	mu        sync.Mutex
	isRunning bool

	// seqMu guards the sequence counters and spans each stale check together
	// with its engine update. Separate from mu so Stop can wait out running
	// jobs without deadlocking them.
	seqMu     sync.Mutex
	feedSeq   uint64
	rosterSeq uint64
}

// NewRefresherService creates a refresher. store may be nil, hub may be nil.
func NewRefresherService(
	feed FeedSource,
	roster RosterSource,
	eng *engine.Engine,
	hub SnapshotBroadcaster,
	store *storage.Store,
	schedule string,
	timeout time.Duration,
	logger *logrus.Logger,
) *RefresherService {
	return &RefresherService{
		feed:     feed,
		roster:   roster,
		eng:      eng,
		hub:      hub,
		store:    store,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
		timeout:  timeout,
	}
}

// Start begins the scheduled refresh cycle and runs an initial fetch.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	_, err := s.cron.AddFunc(s.schedule, s.refresh)
	if err != nil {
		return fmt.Errorf("failed to schedule refresher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	// Run initial fetch
	go s.refresh()

	s.logger.WithField("schedule", s.schedule).Info("Refresher service started")
	return nil
}

// Stop halts the scheduled refresh cycle.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Refresher service stopped")
}

// Refresh runs one full cycle on demand, outside the cron schedule.
func (s *RefresherService) Refresh() {
	s.refresh()
}

func (s *RefresherService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.refreshFeed(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshRoster(ctx)
	}()
	wg.Wait()

	snapshot := s.eng.View()

	if s.hub != nil {
		s.hub.BroadcastSnapshot(snapshot)
	}

	s.persist(ctx, snapshot)
}

// refreshFeed fetches the matchup feed and applies it unless a newer fetch
// already landed.
func (s *RefresherService) refreshFeed(ctx context.Context) {
	s.seqMu.Lock()
	s.feedSeq++
	seq := s.feedSeq
	s.seqMu.Unlock()

	feed, err := s.feed.GetMatchups(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to refresh matchup feed")
		return
	}

	// Stale check and apply must be one critical section, otherwise a newer
	// cycle can slip its update in between them.
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	if seq < s.feedSeq {
		s.logger.Debug("Discarding stale matchup feed response")
		return
	}
	s.eng.UpdateFeed(feed)
}

// refreshRoster fetches golfer statistics and applies them unless a newer
// fetch already landed.
func (s *RefresherService) refreshRoster(ctx context.Context) {
	s.seqMu.Lock()
	s.rosterSeq++
	seq := s.rosterSeq
	s.seqMu.Unlock()

	roster, err := s.roster.GetGolfers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to refresh golfer roster")
		return
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	if seq < s.rosterSeq {
		s.logger.Debug("Discarding stale roster response")
		return
	}
	s.eng.UpdateRoster(roster)
}

// persist records the cycle outcome. Both writes are skipped when no store is
// configured.
func (s *RefresherService) persist(ctx context.Context, snapshot engine.Snapshot) {
	if s.store == nil {
		return
	}

	report := &storage.ReconciliationReport{
		EventName:       snapshot.EventName,
		Market:          snapshot.Market,
		MatchupCount:    snapshot.OfferedCount,
		ResolvedCount:   len(snapshot.Matchups),
		UnresolvedNames: snapshot.UnresolvedNames,
		Notice:          snapshot.Status,
	}
	if err := s.store.SaveReport(ctx, report); err != nil {
		s.logger.WithError(err).Error("Failed to save reconciliation report")
	}

	sel := snapshot.Selection
	if sel == nil || sel.EdgePercent == nil {
		return
	}

	var oddsBlob json.RawMessage
	for _, m := range snapshot.Matchups {
		if key := m.Key(); key == sel.MatchupKey {
			if data, err := json.Marshal(m.Odds); err == nil {
				oddsBlob = data
			}
			break
		}
	}

	edge := &storage.EdgeSnapshot{
		EventName:   snapshot.EventName,
		MatchupKey:  sel.MatchupKey,
		Bookmaker:   sel.Bookmaker,
		PickIsP1:    sel.PickIsP1,
		QuotedOdds:  sel.QuotedOdds,
		EdgePercent: *sel.EdgePercent,
		Odds:        []byte(oddsBlob),
	}
	if err := s.store.SaveEdgeSnapshot(ctx, edge); err != nil {
		s.logger.WithError(err).Error("Failed to save edge snapshot")
	}
}
