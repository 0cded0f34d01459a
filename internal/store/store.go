package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"flashscroll-backend/internal/models"
)

const (
	// PrimaryKey holds the full deck collection as one JSON document.
	PrimaryKey = "flashscroll:decks"
	// LegacyKey is the pre-deck schema: a bare array of cards. Read-only
	// fallback, migrated into a single synthesized deck on first load.
	LegacyKey = "flashcards"
	// DefaultDeckID names both the seeded starter deck and the deck
	// synthesized from a legacy card array.
	DefaultDeckID = "default-deck"
)

// Cmdable is the slice of the Redis API the store needs. *redis.Client
// satisfies it; tests inject a fake.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore persists the deck collection as a single document. There
// are no partial or delta writes: every save rewrites the whole thing.
type RedisStore struct {
	client Cmdable
}

func NewRedisStore(client Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the deck collection. It never fails: a missing or corrupt
// primary document falls back to the legacy single-array format, and
// failing that to a seeded default deck.
func (s *RedisStore) Load(ctx context.Context) []models.Deck {
	raw, err := s.client.Get(ctx, PrimaryKey).Result()
	if err == nil {
		var decks []models.Deck
		if jsonErr := json.Unmarshal([]byte(raw), &decks); jsonErr == nil && decks != nil {
			// A parsed empty collection is accepted as-is. The
			// skip-save-while-empty rule means this process never
			// wrote it, but a user can recover by creating a deck.
			return decks
		}
		log.Printf("WARNING: stored deck document is corrupt, trying legacy format")
	} else if err != redis.Nil {
		log.Printf("WARNING: failed to read deck document: %v", err)
	}

	if legacy := s.loadLegacy(ctx); legacy != nil {
		return legacy
	}

	return SeedDecks()
}

// loadLegacy migrates the legacy bare card array into one deck.
func (s *RedisStore) loadLegacy(ctx context.Context) []models.Deck {
	raw, err := s.client.Get(ctx, LegacyKey).Result()
	if err != nil {
		return nil
	}

	var cards []models.Flashcard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil
	}

	return []models.Deck{{
		ID:        DefaultDeckID,
		Name:      "My First Playlist",
		Cards:     cards,
		CreatedAt: time.Now().UnixMilli(),
	}}
}

// Save writes the full collection. An empty collection is skipped so a
// load that raced a save cannot wipe storage.
func (s *RedisStore) Save(ctx context.Context, decks []models.Deck) error {
	if len(decks) == 0 {
		return nil
	}

	data, err := json.Marshal(decks)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, PrimaryKey, data, 0).Err()
}

// SeedDecks is the collection a fresh (or unrecoverable) install starts
// with. At least one deck always exists after first run.
func SeedDecks() []models.Deck {
	return []models.Deck{{
		ID:        DefaultDeckID,
		Name:      "React Basics",
		CreatedAt: time.Now().UnixMilli(),
		Cards: []models.Flashcard{
			{ID: "1", Front: "What is React?", Back: "A JavaScript library for building user interfaces."},
			{ID: "2", Front: `Explain "State"`, Back: "State is mutable data managed within the component."},
			{ID: "3", Front: "What is a Hook?", Back: `Functions that let you "hook into" React features.`},
		},
	}}
}
