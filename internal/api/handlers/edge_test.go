package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-edge/internal/engine"
	"github.com/stitts-dev/golf-edge/internal/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	eng := engine.New()

	var m models.Matchup
	m.P1Name = "Jon Rahm"
	m.P2Name = "Scottie Scheffler"
	m.Ties = models.TiesVoid
	m.Odds.Set(models.ModelSource, models.OddsQuote{P1: "-110", P2: "-110"})
	m.Odds.Set("bet365", models.OddsQuote{P1: "+105", P2: "-130"})

	eng.UpdateFeed(&models.FeedResponse{
		EventName: "The Open Championship",
		Market:    "tournament_matchups",
		MatchList: models.MatchList{Matchups: []models.Matchup{m}},
	})
	eng.UpdateRoster([]models.Golfer{
		{Name: "Jon Rahm"},
		{Name: "Scottie Scheffler"},
	})

	handler := NewEdgeHandler(eng, nil, nil, log)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/view", handler.GetView)
		v1.GET("/matchups", handler.GetMatchups)
		v1.POST("/selection/matchup", handler.SelectMatchup)
		v1.POST("/selection/bookmaker", handler.SetBookmaker)
		v1.POST("/selection/side", handler.SetPickSide)
		v1.POST("/selection/stake", handler.SetStake)
		v1.POST("/refresh", handler.TriggerRefresh)
		v1.GET("/reports", handler.GetReports)
	}
	return router, eng
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetView(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data engine.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The Open Championship", resp.Data.EventName)
	assert.Len(t, resp.Data.Matchups, 1)
}

func TestSelectMatchupEndpoint(t *testing.T) {
	router, eng := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/selection/matchup", gin.H{"key": "Jon Rahm|Scottie Scheffler|void"})
	require.Equal(t, http.StatusOK, w.Code)

	snap := eng.View()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, "bet365", snap.Selection.Bookmaker)
}

func TestSelectMatchupNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/selection/matchup", gin.H{"key": "nobody|noone|void"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectMatchupMissingKey(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/selection/matchup", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetBookmakerValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// No matchup selected yet.
	w := postJSON(t, router, "/api/v1/selection/bookmaker", gin.H{"bookmaker": "bet365"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	postJSON(t, router, "/api/v1/selection/matchup", gin.H{"key": "Jon Rahm|Scottie Scheffler|void"})

	// Unknown book and the reserved model key are both unprocessable.
	w = postJSON(t, router, "/api/v1/selection/bookmaker", gin.H{"bookmaker": "draftkings"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postJSON(t, router, "/api/v1/selection/bookmaker", gin.H{"bookmaker": "datagolf"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postJSON(t, router, "/api/v1/selection/bookmaker", gin.H{"bookmaker": "bet365"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetStakeValidation(t *testing.T) {
	router, eng := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/selection/stake", gin.H{"amount": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postJSON(t, router, "/api/v1/selection/stake", gin.H{"amount": 100})
	require.Equal(t, http.StatusOK, w.Code)

	postJSON(t, router, "/api/v1/selection/matchup", gin.H{"key": "Jon Rahm|Scottie Scheffler|void"})
	snap := eng.View()
	require.NotNil(t, snap.Selection)
	require.NotNil(t, snap.Selection.Stake)
	assert.Equal(t, 100.0, *snap.Selection.Stake)
}

func TestSetPickSideEndpoint(t *testing.T) {
	router, eng := newTestRouter(t)
	postJSON(t, router, "/api/v1/selection/matchup", gin.H{"key": "Jon Rahm|Scottie Scheffler|void"})

	w := postJSON(t, router, "/api/v1/selection/side", gin.H{"pick_p1": false})
	require.Equal(t, http.StatusOK, w.Code)

	snap := eng.View()
	assert.False(t, snap.Selection.PickIsP1)
	assert.Equal(t, "-130", snap.Selection.QuotedOdds)
}

func TestTriggerRefreshWithoutRefresher(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/refresh", gin.H{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetReportsWithoutStore(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
