// Package storage persists reconciliation history and edge snapshots so
// refresh cycles leave an auditable trail. The whole package is optional: a
// nil Store turns every call into a no-op, which is how the service runs when
// DATABASE_URL is unset.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/stitts-dev/golf-edge/pkg/database"
)

// ReconciliationReport records the outcome of one reconcile pass: how many
// matchups the feed offered and how many survived roster matching.
type ReconciliationReport struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EventName       string         `gorm:"index" json:"event_name"`
	Market          string         `json:"market"`
	MatchupCount    int            `json:"matchup_count"`
	ResolvedCount   int            `json:"resolved_count"`
	UnresolvedNames pq.StringArray `gorm:"type:text[]" json:"unresolved_names"`
	Notice          string         `json:"notice,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (ReconciliationReport) TableName() string {
	return "reconciliation_reports"
}

// EdgeSnapshot captures a selection's derived metrics at a point in time,
// with the full bookmaker odds blob for later inspection.
type EdgeSnapshot struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EventName   string         `gorm:"index" json:"event_name"`
	MatchupKey  string         `gorm:"index" json:"matchup_key"`
	Bookmaker   string         `json:"bookmaker"`
	PickIsP1    bool           `json:"pick_is_p1"`
	QuotedOdds  string         `json:"quoted_odds"`
	EdgePercent float64        `json:"edge_percent"`
	Odds        datatypes.JSON `gorm:"type:jsonb" json:"odds"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (EdgeSnapshot) TableName() string {
	return "edge_snapshots"
}

// Store wraps the database handle. All methods tolerate a nil receiver.
type Store struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewStore runs migrations and returns a store. Pass a nil db to get a store
// that silently drops writes.
func NewStore(db *database.DB, logger *logrus.Logger) (*Store, error) {
	if db == nil {
		return nil, nil
	}
	if err := db.AutoMigrate(&ReconciliationReport{}, &EdgeSnapshot{}); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

// SaveReport persists a reconciliation report.
func (s *Store) SaveReport(ctx context.Context, report *ReconciliationReport) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(report).Error
}

// SaveEdgeSnapshot persists an edge snapshot.
func (s *Store) SaveEdgeSnapshot(ctx context.Context, snapshot *EdgeSnapshot) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(snapshot).Error
}

// RecentReports returns the newest reconciliation reports, capped at limit.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]ReconciliationReport, error) {
	if s == nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 20
	}
	var reports []ReconciliationReport
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// RecentEdgeSnapshots returns the newest edge snapshots for an event.
func (s *Store) RecentEdgeSnapshots(ctx context.Context, eventName string, limit int) ([]EdgeSnapshot, error) {
	if s == nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 50
	}
	var snapshots []EdgeSnapshot
	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if eventName != "" {
		query = query.Where("event_name = ?", eventName)
	}
	err := query.Find(&snapshots).Error
	return snapshots, err
}
