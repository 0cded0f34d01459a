package models

// Flashcard is a single front/back card. Grading never mutates it.
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a named, ordered collection of cards. Cards[0] is always the
// most recently added card: creation, import and generation all prepend.
type Deck struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt int64       `json:"createdAt"` // Unix milliseconds, matches the stored document
}

// CardPair is a front/back pair before an id is assigned. Import
// parsing and AI generation both produce this shape.
type CardPair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
