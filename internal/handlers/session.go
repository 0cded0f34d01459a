package handlers

import (
	"encoding/json"
	"net/http"

	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/session"
)

type SessionHandler struct {
	controller *session.Controller
}

func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// Get returns the full session snapshot: view mode, active deck, grade
// ledger and summary counts.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID string `json:"deck_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.controller.SelectDeck(r.Context(), req.DeckID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *SessionHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.controller.ExitToLibrary()
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Restart(r.Context()); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.controller.State())
}

// Grade records an explicit know/don't-know button press. It shares
// the commit path with swipes, minus the positional animation.
func (h *SessionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string       `json:"card_id"`
		Grade  models.Grade `json:"grade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.controller.Grade(r.Context(), req.CardID, req.Grade); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.controller.State())
}

// ─── Gesture events ───

type gestureEvent struct {
	CardID string  `json:"card_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (h *SessionHandler) GestureStart(w http.ResponseWriter, r *http.Request) {
	var req gestureEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid gesture event", r))
		return
	}

	h.controller.GestureStart(req.CardID, req.X, req.Y)
	writeJSON(w, http.StatusOK, h.controller.GestureVisual(req.CardID))
}

func (h *SessionHandler) GestureMove(w http.ResponseWriter, r *http.Request) {
	var req gestureEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid gesture event", r))
		return
	}

	h.controller.GestureMove(req.CardID, req.X, req.Y)
	writeJSON(w, http.StatusOK, h.controller.GestureVisual(req.CardID))
}

func (h *SessionHandler) GestureEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid gesture event", r))
		return
	}

	outcome, err := h.controller.GestureEnd(r.Context(), req.CardID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"committed": outcome.Committed,
		"grade":     outcome.Grade,
		"visual":    h.controller.GestureVisual(req.CardID),
	})
}

func (h *SessionHandler) GestureTap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID          string `json:"card_id"`
		TargetIsControl bool   `json:"target_is_control"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid gesture event", r))
		return
	}

	h.controller.GestureTap(req.CardID, req.TargetIsControl)
	writeJSON(w, http.StatusOK, h.controller.GestureVisual(req.CardID))
}

func (h *SessionHandler) GestureVisual(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("card_id")
	if cardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "card_id is required", r))
		return
	}

	writeJSON(w, http.StatusOK, h.controller.GestureVisual(cardID))
}
