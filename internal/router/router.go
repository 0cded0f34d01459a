package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flashscroll-backend/internal/handlers"
	"flashscroll-backend/internal/middleware"
	"flashscroll-backend/internal/websocket"
)

func New(
	deckHandler *handlers.DeckHandler,
	sessionHandler *handlers.SessionHandler,
	importHandler *handlers.ImportHandler,
	generateHandler *handlers.GenerateHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Guard the expensive endpoints (20 req/min per IP)
	heavyLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Deck & Card Routes ────
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.ListDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/{id}", deckHandler.GetDeck)
			r.Delete("/{id}", deckHandler.DeleteDeck)
			r.Get("/{id}/export", deckHandler.ExportDeck)

			r.Route("/{id}/cards", func(r chi.Router) {
				r.Post("/", deckHandler.AddCard)
				r.Put("/", deckHandler.ReplaceCards)
				r.Delete("/{cardID}", deckHandler.DeleteCard)
			})
		})

		// ──── Session Routes ────
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Post("/select", sessionHandler.Select)
			r.Post("/exit", sessionHandler.Exit)
			r.Post("/restart", sessionHandler.Restart)
			r.Post("/grade", sessionHandler.Grade)

			r.Route("/gesture", func(r chi.Router) {
				r.Get("/", sessionHandler.GestureVisual)
				r.Post("/start", sessionHandler.GestureStart)
				r.Post("/move", sessionHandler.GestureMove)
				r.Post("/end", sessionHandler.GestureEnd)
				r.Post("/tap", sessionHandler.GestureTap)
			})
		})

		// ──── Import / Generation Routes ────
		r.Group(func(r chi.Router) {
			r.Use(heavyLimiter.Middleware)
			r.Post("/import", importHandler.Import)
			r.Post("/generate", generateHandler.Generate)
			r.Post("/generate/upload", generateHandler.GenerateUpload)
		})

		r.Get("/jobs/{id}", generateHandler.GetJob)

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
