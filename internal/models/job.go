package models

import "time"

// Generation job lifecycle. A job is created pending, picked up by a
// worker, and ends in success or error. There is no cancellation:
// a renderer that closes its dialog only stops watching the job.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobSuccess    = "success"
	JobError      = "error"
)

type Job struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Text      string    `json:"text,omitempty"`
	Status    string    `json:"status"`
	CardCount int       `json:"card_count"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WSMessage is the envelope pushed to renderers over the WebSocket hub.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSMessage types.
const (
	WSAdvance          = "advance"           // scroll to the next card
	WSScrollTop        = "scroll_top"        // restart pressed, scroll to the first card
	WSGenerationStatus = "generation_status" // job status changed
	WSDeckUpdated      = "deck_updated"      // active deck's card list changed
)

type GenerationStatusPayload struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	CardCount int    `json:"card_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// API error envelope.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
