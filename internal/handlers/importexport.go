package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"flashscroll-backend/internal/importer"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/repository"
	"flashscroll-backend/internal/session"
)

type ImportHandler struct {
	deckRepo   *repository.DeckRepo
	controller *session.Controller
}

func NewImportHandler(deckRepo *repository.DeckRepo, controller *session.Controller) *ImportHandler {
	return &ImportHandler{deckRepo: deckRepo, controller: controller}
}

// Import parses the uploaded file contents and merges the cards.
// Target resolution: an explicit deck_id wins; otherwise the active
// session's deck; with neither, a new deck named by the current date is
// created and seeded with the imported cards.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Format  string `json:"format"` // "json" | "csv"
		DeckID  string `json:"deck_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	var pairs []models.CardPair
	var err error
	switch req.Format {
	case "json":
		pairs, err = importer.ParseJSON(req.Content)
	case "csv":
		pairs, err = importer.ParseCSV(req.Content)
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "format must be json or csv", r))
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if len(pairs) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{"imported": 0})
		return
	}

	deckID := req.DeckID
	if deckID == "" {
		deckID = h.controller.ActiveDeckID()
	}

	created := false
	if deckID == "" {
		name := "Imported " + time.Now().Format("1/2/2006")
		deck, createErr := h.deckRepo.CreateDeck(r.Context(), name)
		if createErr != nil {
			handleServiceError(w, r, createErr)
			return
		}
		deckID = deck.ID
		created = true
	}

	cards, err := h.deckRepo.PrependCards(r.Context(), deckID, pairs)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported":     len(cards),
		"deck_id":      deckID,
		"deck_created": created,
	})
}
