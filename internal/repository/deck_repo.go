package repository

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"flashscroll-backend/internal/models"
)

// Store is the durable document store backing the repository. Load is
// fail-soft and always yields a usable collection.
type Store interface {
	Load(ctx context.Context) []models.Deck
	Save(ctx context.Context, decks []models.Deck) error
}

// DeckRepo owns the deck collection. All reads hand out copies; every
// mutation is mirrored to the store before returning.
type DeckRepo struct {
	mu    sync.Mutex
	store Store
	decks []models.Deck
}

func NewDeckRepo(ctx context.Context, store Store) *DeckRepo {
	return &DeckRepo{
		store: store,
		decks: store.Load(ctx),
	}
}

// Decks returns a snapshot of the collection in creation order.
func (r *DeckRepo) Decks() []models.Deck {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Deck, len(r.decks))
	for i, d := range r.decks {
		out[i] = copyDeck(d)
	}
	return out
}

// Deck returns a snapshot of one deck.
func (r *DeckRepo) Deck(id string) (models.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.decks {
		if d.ID == id {
			return copyDeck(d), nil
		}
	}
	return models.Deck{}, &NotFoundError{Message: "Deck not found"}
}

// CreateDeck appends a new empty deck. Blank names are rejected.
func (r *DeckRepo) CreateDeck(ctx context.Context, name string) (models.Deck, error) {
	if strings.TrimSpace(name) == "" {
		return models.Deck{}, &ValidationError{Fields: map[string]string{"name": "name must not be blank"}}
	}

	deck := models.Deck{
		ID:        uuid.NewString(),
		Name:      name,
		Cards:     []models.Flashcard{},
		CreatedAt: time.Now().UnixMilli(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks = append(r.decks, deck)
	r.persist(ctx)
	return copyDeck(deck), nil
}

// DeleteDeck removes a deck by id.
func (r *DeckRepo) DeleteDeck(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.decks {
		if d.ID == id {
			r.decks = append(r.decks[:i], r.decks[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return &NotFoundError{Message: "Deck not found"}
}

// AddCard prepends a new card: cards[0] is always the newest card.
func (r *DeckRepo) AddCard(ctx context.Context, deckID, front, back string) (models.Flashcard, error) {
	fields := map[string]string{}
	if strings.TrimSpace(front) == "" {
		fields["front"] = "front must not be blank"
	}
	if strings.TrimSpace(back) == "" {
		fields["back"] = "back must not be blank"
	}
	if len(fields) > 0 {
		return models.Flashcard{}, &ValidationError{Fields: fields}
	}

	card := models.Flashcard{ID: uuid.NewString(), Front: front, Back: back}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.decks {
		if r.decks[i].ID == deckID {
			r.decks[i].Cards = append([]models.Flashcard{card}, r.decks[i].Cards...)
			r.persist(ctx)
			return card, nil
		}
	}
	return models.Flashcard{}, &NotFoundError{Message: "Deck not found"}
}

// DeleteCard removes a card by id. A missing card is a no-op.
func (r *DeckRepo) DeleteCard(ctx context.Context, deckID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.decks {
		if r.decks[i].ID != deckID {
			continue
		}
		for j, c := range r.decks[i].Cards {
			if c.ID == cardID {
				r.decks[i].Cards = append(r.decks[i].Cards[:j], r.decks[i].Cards[j+1:]...)
				r.persist(ctx)
				return nil
			}
		}
		return nil
	}
	return &NotFoundError{Message: "Deck not found"}
}

// ReplaceCards swaps a deck's card sequence wholesale, preserving the
// order given by the caller.
func (r *DeckRepo) ReplaceCards(ctx context.Context, deckID string, cards []models.Flashcard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.decks {
		if r.decks[i].ID == deckID {
			r.decks[i].Cards = append([]models.Flashcard(nil), cards...)
			r.persist(ctx)
			return nil
		}
	}
	return &NotFoundError{Message: "Deck not found"}
}

// PrependCards mints ids for the given pairs and inserts them ahead of
// the deck's existing cards, preserving pair order. This is the merge
// contract used by import and generation: new cards first.
func (r *DeckRepo) PrependCards(ctx context.Context, deckID string, pairs []models.CardPair) ([]models.Flashcard, error) {
	minted := make([]models.Flashcard, 0, len(pairs))
	for _, p := range pairs {
		minted = append(minted, models.Flashcard{ID: uuid.NewString(), Front: p.Front, Back: p.Back})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.decks {
		if r.decks[i].ID == deckID {
			r.decks[i].Cards = append(minted, r.decks[i].Cards...)
			r.persist(ctx)
			return minted, nil
		}
	}
	return nil, &NotFoundError{Message: "Deck not found"}
}

// persist mirrors the collection to the store. Storage failures are
// logged, never surfaced: the in-memory collection stays authoritative.
// Callers must hold r.mu.
func (r *DeckRepo) persist(ctx context.Context) {
	if err := r.store.Save(ctx, r.decks); err != nil {
		log.Printf("WARNING: failed to persist deck collection: %v", err)
	}
}

func copyDeck(d models.Deck) models.Deck {
	out := d
	out.Cards = append([]models.Flashcard(nil), d.Cards...)
	return out
}

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }
