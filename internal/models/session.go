package models

// Grade is a binary self-assessment of recall. A card with no ledger
// entry is "not yet graded" and shows up as skipped in the summary.
type Grade string

const (
	GradeCorrect   Grade = "correct"
	GradeIncorrect Grade = "incorrect"
)

func (g Grade) Valid() bool {
	return g == GradeCorrect || g == GradeIncorrect
}

// ViewMode is the top-level screen the renderer shows.
type ViewMode string

const (
	ViewLibrary ViewMode = "library"
	ViewPlayer  ViewMode = "player"
)

// SessionSummary is the end-of-session slide data.
type SessionSummary struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Skipped   int `json:"skipped"`
	Accuracy  int `json:"accuracy"` // rounded percentage, 0 when total is 0
}

// SessionState is the snapshot returned to the renderer.
type SessionState struct {
	View         ViewMode         `json:"view"`
	ActiveDeckID string           `json:"active_deck_id,omitempty"`
	Grades       map[string]Grade `json:"grades"`
	Summary      SessionSummary   `json:"summary"`
}
