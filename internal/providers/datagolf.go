// Package providers implements the two external collaborators the engine
// consumes: the DataGolf betting feed and the simulation-backed golfer
// statistics source.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/models"
	"github.com/stitts-dev/golf-edge/internal/services"
)

const (
	matchupsCacheTTL = 5 * time.Minute
	skillsCacheTTL   = 6 * time.Hour
)

// FeedClient fetches matchup odds and skill ratings from the DataGolf API.
type FeedClient struct {
	httpClient    *http.Client
	cache         services.CacheProvider
	breaker       *services.CircuitBreakerService
	logger        *logrus.Logger
	apiKey        string
	baseURL       string
	tour          string
	market        string
	rateLimiter   *time.Ticker
	retryAttempts int
	mu            sync.Mutex
}

// NewFeedClient creates a DataGolf client. DataGolf's limits are generous but
// a conservative 1 req/second keeps us well clear of them.
func NewFeedClient(apiKey, baseURL, tour, market string, cache services.CacheProvider, breaker *services.CircuitBreakerService, logger *logrus.Logger) *FeedClient {
	return &FeedClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:         cache,
		breaker:       breaker,
		logger:        logger,
		apiKey:        apiKey,
		baseURL:       baseURL,
		tour:          tour,
		market:        market,
		rateLimiter:   time.NewTicker(1 * time.Second),
		retryAttempts: 3,
	}
}

// GetMatchups fetches the matchup odds feed for the configured tour and
// market. A feed that answers with a notice string instead of a match list is
// a valid response, not an error.
func (c *FeedClient) GetMatchups(ctx context.Context) (*models.FeedResponse, error) {
	cacheKey := services.MatchupsCacheKey(c.tour, c.market)

	var cached models.FeedResponse
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		c.logger.WithField("source", "cache").Debug("Returning cached matchup feed")
		return &cached, nil
	}

	url := fmt.Sprintf("%s/betting-tools/matchups?tour=%s&market=%s&odds_format=american&file_format=json&key=%s",
		c.baseURL, c.tour, c.market, c.apiKey)

	result, err := c.breaker.Execute(services.BreakerFeed, func() (interface{}, error) {
		var response models.FeedResponse
		if err := c.makeRequest(ctx, url, &response); err != nil {
			return nil, fmt.Errorf("failed to fetch matchups: %w", err)
		}
		return &response, nil
	})
	if err != nil {
		return nil, err
	}
	response := result.(*models.FeedResponse)

	if err := c.cache.Set(ctx, cacheKey, response, matchupsCacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache matchup feed")
	}

	c.logger.WithFields(logrus.Fields{
		"event":    response.EventName,
		"matchups": len(response.MatchList.Matchups),
		"notice":   response.MatchList.Notice,
	}).Info("Fetched matchup feed from DataGolf")

	return response, nil
}

type skillRatingsResponse struct {
	LastUpdated string               `json:"last_updated"`
	Ratings     []models.SkillRating `json:"ratings"`
}

// GetSkillRatings fetches the per-player strokes-gained skill ratings that
// seed the tournament simulation.
func (c *FeedClient) GetSkillRatings(ctx context.Context) ([]models.SkillRating, error) {
	cacheKey := services.SkillRatingsCacheKey(c.tour)

	var cached []models.SkillRating
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		c.logger.WithField("source", "cache").Debug("Returning cached skill ratings")
		return cached, nil
	}

	url := fmt.Sprintf("%s/preds/skill-ratings?display=value&file_format=json&key=%s",
		c.baseURL, c.apiKey)

	result, err := c.breaker.Execute(services.BreakerPredictions, func() (interface{}, error) {
		var response skillRatingsResponse
		if err := c.makeRequest(ctx, url, &response); err != nil {
			return nil, fmt.Errorf("failed to fetch skill ratings: %w", err)
		}
		return response.Ratings, nil
	})
	if err != nil {
		return nil, err
	}
	ratings := result.([]models.SkillRating)

	if err := c.cache.Set(ctx, cacheKey, ratings, skillsCacheTTL); err != nil {
		c.logger.WithError(err).Warn("Failed to cache skill ratings")
	}

	c.logger.WithField("count", len(ratings)).Info("Fetched skill ratings from DataGolf")

	return ratings, nil
}

// makeRequest handles HTTP requests with rate limiting and retries
func (c *FeedClient) makeRequest(ctx context.Context, url string, target interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Rate limiting
	select {
	case <-c.rateLimiter.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			select {
			case <-time.After(time.Duration(math.Pow(2, float64(attempt))) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "golf-edge-service/1.0.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}

			if err := json.Unmarshal(body, target); err != nil {
				c.logger.WithFields(logrus.Fields{
					"url":             url,
					"response_length": len(body),
					"error":           err.Error(),
				}).Error("Failed to decode JSON response from DataGolf")
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("invalid API key")
		case http.StatusForbidden:
			return fmt.Errorf("access forbidden - check subscription")
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limit exceeded")
		default:
			lastErr = fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", c.retryAttempts, lastErr)
}
