package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/engine"
	"github.com/stitts-dev/golf-edge/internal/odds"
	"github.com/stitts-dev/golf-edge/internal/storage"
	"github.com/stitts-dev/golf-edge/internal/utils"
)

// Refresher triggers an on-demand refresh cycle.
type Refresher interface {
	Refresh()
}

// EdgeHandler serves the reconciled matchup view and the selection endpoints.
type EdgeHandler struct {
	eng       *engine.Engine
	refresher Refresher
	store     *storage.Store
	logger    *logrus.Logger
}

// NewEdgeHandler creates the matchup/selection handler. refresher and store
// may be nil.
func NewEdgeHandler(eng *engine.Engine, refresher Refresher, store *storage.Store, logger *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{
		eng:       eng,
		refresher: refresher,
		store:     store,
		logger:    logger,
	}
}

// GetView returns the full engine snapshot: event metadata, resolvable
// matchups, the selection with derived metrics, and any feed notice.
func (h *EdgeHandler) GetView(c *gin.Context) {
	utils.SendSuccess(c, h.eng.View())
}

// GetMatchups returns just the resolvable matchup list and the names that
// failed reconciliation.
func (h *EdgeHandler) GetMatchups(c *gin.Context) {
	snapshot := h.eng.View()
	utils.SendSuccess(c, gin.H{
		"event_name":       snapshot.EventName,
		"last_updated":     snapshot.LastUpdated,
		"market":           snapshot.Market,
		"status":           snapshot.Status,
		"matchups":         snapshot.Matchups,
		"unresolved_names": snapshot.UnresolvedNames,
	})
}

type selectMatchupRequest struct {
	Key string `json:"key" binding:"required"`
}

// SelectMatchup picks a matchup by its identity key.
func (h *EdgeHandler) SelectMatchup(c *gin.Context) {
	var req selectMatchupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "key is required")
		return
	}

	if err := h.eng.SelectMatchup(req.Key); err != nil {
		if errors.Is(err, engine.ErrUnknownMatchup) {
			utils.SendNotFound(c, "matchup not found: "+req.Key)
			return
		}
		utils.SendInternalError(c, err.Error())
		return
	}

	h.logger.WithField("matchup_key", req.Key).Info("Matchup selected")
	utils.SendSuccess(c, h.eng.View())
}

type setBookmakerRequest struct {
	Bookmaker string `json:"bookmaker" binding:"required"`
}

// SetBookmaker switches the selection to another bookmaker's quote.
func (h *EdgeHandler) SetBookmaker(c *gin.Context) {
	var req setBookmakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "bookmaker is required")
		return
	}

	if err := h.eng.SetBookmaker(req.Bookmaker); err != nil {
		switch {
		case errors.Is(err, engine.ErrNoMatchupSelected):
			utils.SendBadRequest(c, "no matchup selected")
		case errors.Is(err, engine.ErrUnknownBookmaker):
			utils.SendValidationError(c, "bookmaker not offered for this matchup: "+req.Bookmaker)
		default:
			utils.SendInternalError(c, err.Error())
		}
		return
	}

	utils.SendSuccess(c, h.eng.View())
}

type setSideRequest struct {
	PickP1 *bool `json:"pick_p1" binding:"required"`
}

// SetPickSide toggles which golfer in the matchup is the pick.
func (h *EdgeHandler) SetPickSide(c *gin.Context) {
	var req setSideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "pick_p1 is required")
		return
	}

	if err := h.eng.SetPickSide(*req.PickP1); err != nil {
		if errors.Is(err, engine.ErrNoMatchupSelected) {
			utils.SendBadRequest(c, "no matchup selected")
			return
		}
		utils.SendInternalError(c, err.Error())
		return
	}

	utils.SendSuccess(c, h.eng.View())
}

type setStakeRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

// SetStake stores the stake used for the payout projection.
func (h *EdgeHandler) SetStake(c *gin.Context) {
	var req setStakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "amount is required")
		return
	}

	if err := h.eng.SetStake(*req.Amount); err != nil {
		if errors.Is(err, odds.ErrInvalidStake) {
			utils.SendValidationError(c, "stake must be a non-negative finite amount")
			return
		}
		utils.SendInternalError(c, err.Error())
		return
	}

	utils.SendSuccess(c, h.eng.View())
}

// TriggerRefresh kicks off a refresh cycle outside the schedule.
func (h *EdgeHandler) TriggerRefresh(c *gin.Context) {
	if h.refresher == nil {
		utils.SendServiceUnavailable(c, "refresher not configured")
		return
	}

	go h.refresher.Refresh()
	utils.SendSuccessWithMessage(c, nil, "refresh started")
}

// GetReports returns recent reconciliation reports from storage.
func (h *EdgeHandler) GetReports(c *gin.Context) {
	if h.store == nil {
		utils.SendSuccess(c, []storage.ReconciliationReport{})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reports, err := h.store.RecentReports(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load reconciliation reports")
		utils.SendInternalError(c, "failed to load reports")
		return
	}
	utils.SendSuccess(c, reports)
}

// GetEdgeHistory returns recent persisted edge snapshots.
func (h *EdgeHandler) GetEdgeHistory(c *gin.Context) {
	if h.store == nil {
		utils.SendSuccess(c, []storage.EdgeSnapshot{})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.SendBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	snapshots, err := h.store.RecentEdgeSnapshots(c.Request.Context(), c.Query("event"), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load edge snapshots")
		utils.SendInternalError(c, "failed to load edge history")
		return
	}
	utils.SendSuccess(c, snapshots)
}
