package repository

import (
	"context"
	"testing"

	"flashscroll-backend/internal/models"
)

// memStore records every save so tests can assert the persisted mirror.
type memStore struct {
	seed  []models.Deck
	saved [][]models.Deck
}

func (s *memStore) Load(ctx context.Context) []models.Deck { return s.seed }

func (s *memStore) Save(ctx context.Context, decks []models.Deck) error {
	snapshot := make([]models.Deck, len(decks))
	for i, d := range decks {
		snapshot[i] = d
		snapshot[i].Cards = append([]models.Flashcard(nil), d.Cards...)
	}
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *memStore) last() []models.Deck {
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

func seededStore() *memStore {
	return &memStore{
		seed: []models.Deck{{
			ID:   "d1",
			Name: "Seed Deck",
			Cards: []models.Flashcard{
				{ID: "c1", Front: "Q1", Back: "A1"},
				{ID: "c2", Front: "Q2", Back: "A2"},
			},
		}},
	}
}

func cardIDs(cards []models.Flashcard) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestAddCardPrepends(t *testing.T) {
	st := seededStore()
	repo := NewDeckRepo(context.Background(), st)

	card, err := repo.AddCard(context.Background(), "d1", "New Q", "New A")
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	deck, _ := repo.Deck("d1")
	if deck.Cards[0].ID != card.ID {
		t.Errorf("Expected new card first, got %q", deck.Cards[0].ID)
	}
	if len(deck.Cards) != 3 {
		t.Errorf("Expected 3 cards, got %d", len(deck.Cards))
	}

	persisted := st.last()
	if persisted == nil || persisted[0].Cards[0].ID != card.ID {
		t.Error("Persisted mirror does not lead with the new card")
	}
}

func TestAddThenDeleteRestoresSequence(t *testing.T) {
	st := seededStore()
	repo := NewDeckRepo(context.Background(), st)

	before, _ := repo.Deck("d1")

	card, err := repo.AddCard(context.Background(), "d1", "Temp Q", "Temp A")
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	if err := repo.DeleteCard(context.Background(), "d1", card.ID); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}

	after, _ := repo.Deck("d1")
	if got, want := cardIDs(after.Cards), cardIDs(before.Cards); len(got) != len(want) {
		t.Fatalf("Expected %d cards, got %d", len(want), len(got))
	} else {
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("Card %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	}

	persisted := st.last()
	if len(persisted[0].Cards) != len(before.Cards) {
		t.Error("Persisted mirror does not match restored sequence")
	}
	for i, c := range persisted[0].Cards {
		if c.ID != before.Cards[i].ID {
			t.Errorf("Persisted card %d: expected %q, got %q", i, before.Cards[i].ID, c.ID)
		}
	}
}

func TestAddCardValidation(t *testing.T) {
	tests := []struct {
		name  string
		front string
		back  string
	}{
		{"blank front", "", "A"},
		{"blank back", "Q", ""},
		{"whitespace front", "   ", "A"},
		{"whitespace both", " \t", "  "},
	}

	repo := NewDeckRepo(context.Background(), seededStore())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.AddCard(context.Background(), "d1", tc.front, tc.back)
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}

	deck, _ := repo.Deck("d1")
	if len(deck.Cards) != 2 {
		t.Errorf("Rejected adds must not mutate the deck, got %d cards", len(deck.Cards))
	}
}

func TestCreateDeckValidatesName(t *testing.T) {
	st := seededStore()
	repo := NewDeckRepo(context.Background(), st)

	if _, err := repo.CreateDeck(context.Background(), "   "); err == nil {
		t.Error("Expected blank name to be rejected")
	}
	if len(st.saved) != 0 {
		t.Error("Rejected create must not trigger a persistence write")
	}

	deck, err := repo.CreateDeck(context.Background(), "Biology")
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if deck.ID == "" {
		t.Error("Expected a fresh id")
	}
	if deck.CreatedAt == 0 {
		t.Error("Expected a creation timestamp")
	}

	decks := repo.Decks()
	if decks[len(decks)-1].ID != deck.ID {
		t.Error("New deck must be appended to the end of the sequence")
	}
}

func TestDeleteCardMissingIsNoOp(t *testing.T) {
	st := seededStore()
	repo := NewDeckRepo(context.Background(), st)

	if err := repo.DeleteCard(context.Background(), "d1", "nope"); err != nil {
		t.Errorf("Missing card should be a no-op, got %v", err)
	}

	deck, _ := repo.Deck("d1")
	if len(deck.Cards) != 2 {
		t.Errorf("Expected untouched deck, got %d cards", len(deck.Cards))
	}
}

func TestDeleteDeck(t *testing.T) {
	repo := NewDeckRepo(context.Background(), seededStore())

	if err := repo.DeleteDeck(context.Background(), "d1"); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if _, err := repo.Deck("d1"); err == nil {
		t.Error("Deck should be gone")
	}
	if err := repo.DeleteDeck(context.Background(), "d1"); err == nil {
		t.Error("Expected NotFoundError for a deleted deck")
	}
}

func TestReplaceCardsPreservesCallerOrder(t *testing.T) {
	repo := NewDeckRepo(context.Background(), seededStore())

	next := []models.Flashcard{
		{ID: "x1", Front: "F1", Back: "B1"},
		{ID: "x2", Front: "F2", Back: "B2"},
		{ID: "x3", Front: "F3", Back: "B3"},
	}
	if err := repo.ReplaceCards(context.Background(), "d1", next); err != nil {
		t.Fatalf("ReplaceCards failed: %v", err)
	}

	deck, _ := repo.Deck("d1")
	for i, want := range []string{"x1", "x2", "x3"} {
		if deck.Cards[i].ID != want {
			t.Errorf("Card %d: expected %q, got %q", i, want, deck.Cards[i].ID)
		}
	}
}

func TestPrependCardsMergesNewFirst(t *testing.T) {
	repo := NewDeckRepo(context.Background(), seededStore())

	minted, err := repo.PrependCards(context.Background(), "d1", []models.CardPair{
		{Front: "N1", Back: "B1"},
		{Front: "N2", Back: "B2"},
	})
	if err != nil {
		t.Fatalf("PrependCards failed: %v", err)
	}
	if len(minted) != 2 {
		t.Fatalf("Expected 2 minted cards, got %d", len(minted))
	}

	deck, _ := repo.Deck("d1")
	want := []string{minted[0].ID, minted[1].ID, "c1", "c2"}
	got := cardIDs(deck.Cards)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Card %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	repo := NewDeckRepo(context.Background(), seededStore())

	deck, _ := repo.Deck("d1")
	deck.Cards[0].Front = "mutated"

	fresh, _ := repo.Deck("d1")
	if fresh.Cards[0].Front == "mutated" {
		t.Error("Snapshot mutation leaked into the repository")
	}
}
