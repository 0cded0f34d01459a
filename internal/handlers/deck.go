package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flashscroll-backend/internal/importer"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/repository"
	"flashscroll-backend/internal/session"
)

type DeckHandler struct {
	deckRepo   *repository.DeckRepo
	controller *session.Controller
}

func NewDeckHandler(deckRepo *repository.DeckRepo, controller *session.Controller) *DeckHandler {
	return &DeckHandler{deckRepo: deckRepo, controller: controller}
}

func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"decks": h.deckRepo.Decks()})
}

func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	deck, err := h.deckRepo.CreateDeck(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"deck": deck})
}

func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.deckRepo.Deck(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"deck": deck})
}

func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.deckRepo.DeleteDeck(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Deleting the active deck ends the session
	h.controller.DeckDeleted(id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deck deleted"})
}

func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	card, err := h.deckRepo.AddCard(r.Context(), chi.URLParam(r, "id"), req.Front, req.Back)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"card": card})
}

func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	err := h.deckRepo.DeleteCard(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cardID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Card deleted"})
}

func (h *DeckHandler) ReplaceCards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cards []models.Flashcard `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.deckRepo.ReplaceCards(r.Context(), chi.URLParam(r, "id"), req.Cards); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cards replaced"})
}

// ExportDeck streams the deck's cards as a pretty-printed JSON download.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.deckRepo.Deck(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	data, filename, err := importer.ExportDeck(deck)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to export deck", r))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
