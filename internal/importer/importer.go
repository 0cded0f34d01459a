package importer

import (
	"encoding/json"
	"strings"

	"flashscroll-backend/internal/models"
)

// ParseError is surfaced to the user as a generic import failure; no
// partial import is ever applied.
type ParseError struct{ Message string }

func (e *ParseError) Error() string { return e.Message }

// ParseJSON reads a JSON array of {front, back} objects. Entries
// missing either field are silently dropped; extra fields are ignored.
// Malformed JSON fails the whole import.
func ParseJSON(text string) ([]models.CardPair, error) {
	var raw []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &ParseError{Message: "invalid JSON import"}
	}

	pairs := make([]models.CardPair, 0, len(raw))
	for _, item := range raw {
		if item.Front == "" || item.Back == "" {
			continue
		}
		pairs = append(pairs, models.CardPair{Front: item.Front, Back: item.Back})
	}
	return pairs, nil
}

// ParseCSV reads one card per line. Only the first comma separates the
// fields: the answer side keeps any embedded commas. Lines without a
// comma, or whose front is empty after trimming, are dropped.
//
// No header-row special-casing: a literal "front,back" header line
// becomes a card. Deliberately preserved from the original importer;
// skipping headers would change stored data for users who relied on it.
func ParseCSV(text string) ([]models.CardPair, error) {
	lines := strings.Split(text, "\n")

	var pairs []models.CardPair
	for _, line := range lines {
		parts := strings.SplitN(line, ",", 2)
		if len(parts) < 2 {
			continue
		}
		front := strings.TrimSpace(parts[0])
		back := strings.TrimSpace(parts[1])
		if front == "" {
			continue
		}
		pairs = append(pairs, models.CardPair{Front: front, Back: back})
	}
	return pairs, nil
}

// ExportDeck serializes a deck's cards (ids included) as pretty-printed
// JSON, together with the download filename derived from the deck name.
func ExportDeck(deck models.Deck) ([]byte, string, error) {
	cards := deck.Cards
	if cards == nil {
		cards = []models.Flashcard{}
	}
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, SlugFilename(deck.Name), nil
}

// SlugFilename lowercases the deck name and collapses whitespace runs
// into underscores, matching the original export naming.
func SlugFilename(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	if slug == "" {
		slug = "deck"
	}
	return slug + "_export.json"
}
