package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashscroll-backend/internal/jobs"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/services"
	"flashscroll-backend/internal/session"
)

type GenerateHandler struct {
	jobStore    *jobs.Store
	controller  *session.Controller
	fileExtract *services.FileExtractService
	storagePath string
}

func NewGenerateHandler(jobStore *jobs.Store, controller *session.Controller, fileExtract *services.FileExtractService, storagePath string) *GenerateHandler {
	return &GenerateHandler{
		jobStore:    jobStore,
		controller:  controller,
		fileExtract: fileExtract,
		storagePath: storagePath,
	}
}

// Generate enqueues a card-generation job from pasted text. The worker
// pool picks it up; status flows back over the WebSocket and via
// GET /jobs/{id}. One request may be in flight at a time.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"text"`
		DeckID string `json:"deck_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.enqueue(w, r, req.Text, req.DeckID)
}

// GenerateUpload accepts a multipart document (.txt/.md/.pdf), extracts
// its text and enqueues the same job as Generate.
func (h *GenerateHandler) GenerateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart body", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "file field is required", r))
		return
	}
	defer file.Close()

	tmpPath := filepath.Join(h.storagePath, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(tmpPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store upload", r))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store upload", r))
		return
	}
	dst.Close()
	defer os.Remove(tmpPath)

	text, err := h.fileExtract.ExtractTextFromPath(tmpPath)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not extract text from file", r))
		return
	}

	h.enqueue(w, r, text, r.FormValue("deck_id"))
}

func (h *GenerateHandler) enqueue(w http.ResponseWriter, r *http.Request, text, deckID string) {
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "text must not be blank", r))
		return
	}

	// Generated cards merge into the active deck
	if deckID == "" {
		deckID = h.controller.ActiveDeckID()
	}
	if deckID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "no active deck to add cards to", r))
		return
	}

	job := &models.Job{
		DeckID: deckID,
		Text:   text,
	}
	if err := h.jobStore.Enqueue(r.Context(), job); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"job": map[string]interface{}{
			"id":     job.ID,
			"status": job.Status,
		},
	})
}

func (h *GenerateHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobStore.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// the prompt text is bulky and not the caller's business here
	job.Text = ""
	writeJSON(w, http.StatusOK, job)
}
