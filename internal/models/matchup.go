package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ModelSource is the reserved key in a matchup's odds map carrying DataGolf's
// own reference line. It is never offered as a selectable bookmaker; edge math
// compares a shopped book's price against it.
const ModelSource = "datagolf"

// Tie handling rules DataGolf quotes matchups under.
const (
	TiesVoid        = "void"
	TiesSeparateBet = "separate_bet_offered"
)

// OddsQuote is a single bookmaker's prices for one matchup, American format.
type OddsQuote struct {
	P1  string `json:"p1"`
	P2  string `json:"p2"`
	Tie string `json:"tie,omitempty"`
}

// Complete reports whether both sides of the quote are present. Entries with
// only one side priced are treated as incomplete and skipped downstream.
func (q OddsQuote) Complete() bool {
	return q.P1 != "" && q.P2 != ""
}

// BookmakerOdds maps bookmaker keys to their quotes while remembering the key
// order of the feed object. Go maps don't keep insertion order, and the first
// non-model book in feed order becomes the default selection, so the order has
// to survive unmarshaling.
type BookmakerOdds struct {
	keys   []string
	quotes map[string]OddsQuote
}

// Set stores a quote, appending the key to the order on first sight.
func (b *BookmakerOdds) Set(book string, quote OddsQuote) {
	if b.quotes == nil {
		b.quotes = make(map[string]OddsQuote)
	}
	if _, exists := b.quotes[book]; !exists {
		b.keys = append(b.keys, book)
	}
	b.quotes[book] = quote
}

// Get returns the quote for a bookmaker key.
func (b BookmakerOdds) Get(book string) (OddsQuote, bool) {
	q, ok := b.quotes[book]
	return q, ok
}

// Keys returns all bookmaker keys in feed order, including the model source.
func (b BookmakerOdds) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Len returns the number of bookmaker entries.
func (b BookmakerOdds) Len() int {
	return len(b.keys)
}

// UnmarshalJSON decodes the odds object with a token walk so the feed's key
// order is preserved. Same technique as the flexible-ID decoding in the data
// sync layer this service grew out of.
func (b *BookmakerOdds) UnmarshalJSON(data []byte) error {
	b.keys = nil
	b.quotes = make(map[string]OddsQuote)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("book odds must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		book, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("book odds key must be a string")
		}

		var quote OddsQuote
		if err := dec.Decode(&quote); err != nil {
			return fmt.Errorf("decoding odds for book %q: %w", book, err)
		}
		b.Set(book, quote)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON re-emits the odds object in feed order.
func (b BookmakerOdds) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, book := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(book)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		quote, err := json.Marshal(b.quotes[book])
		if err != nil {
			return nil, err
		}
		buf.Write(quote)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Matchup is one head-to-head golf matchup offered by the feed.
type Matchup struct {
	P1Name string        `json:"p1_player_name"`
	P2Name string        `json:"p2_player_name"`
	Ties   string        `json:"ties"`
	Odds   BookmakerOdds `json:"odds"`
}

// Key builds the identity triple used to correlate list entries with a
// selection across feed refreshes. The triple is expected to be unique within
// one feed response; when it isn't, the last entry wins for key lookups.
func (m *Matchup) Key() string {
	return m.P1Name + "|" + m.P2Name + "|" + m.Ties
}

// AvailableBookmakers returns the selectable bookmaker keys in feed order,
// excluding the reserved model source.
func (m *Matchup) AvailableBookmakers() []string {
	books := make([]string, 0, m.Odds.Len())
	for _, book := range m.Odds.Keys() {
		if book == ModelSource {
			continue
		}
		books = append(books, book)
	}
	return books
}
