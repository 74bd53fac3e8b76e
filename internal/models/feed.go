package models

import (
	"encoding/json"
	"fmt"
)

// MatchList holds the feed's match_list field, which is either a list of
// matchups or, when the event has nothing on offer, a human-readable reason
// string. The reason is surfaced as a status message, never as an error.
type MatchList struct {
	Matchups []Matchup
	Notice   string
}

// Offered reports whether the feed actually listed matchups.
func (ml MatchList) Offered() bool {
	return ml.Notice == ""
}

// UnmarshalJSON accepts both shapes DataGolf sends for match_list.
func (ml *MatchList) UnmarshalJSON(data []byte) error {
	ml.Matchups = nil
	ml.Notice = ""

	var notice string
	if err := json.Unmarshal(data, &notice); err == nil {
		ml.Notice = notice
		return nil
	}

	var matchups []Matchup
	if err := json.Unmarshal(data, &matchups); err != nil {
		return fmt.Errorf("match_list must be an array or a string: %w", err)
	}
	ml.Matchups = matchups
	return nil
}

// MarshalJSON re-emits whichever shape the feed delivered.
func (ml MatchList) MarshalJSON() ([]byte, error) {
	if ml.Notice != "" {
		return json.Marshal(ml.Notice)
	}
	if ml.Matchups == nil {
		return json.Marshal([]Matchup{})
	}
	return json.Marshal(ml.Matchups)
}

// FeedResponse is the parsed betting-tools/matchups payload.
type FeedResponse struct {
	EventName   string    `json:"event_name"`
	LastUpdated string    `json:"last_updated"`
	Market      string    `json:"market"`
	MatchList   MatchList `json:"match_list"`
}
