package session

import (
	"context"
	"math"
	"sync"
	"time"

	"flashscroll-backend/internal/gesture"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/repository"
)

// Publisher pushes signals to the rendering layer. The hub's pub/sub
// relay implements it; a nil publisher drops signals.
type Publisher interface {
	Publish(ctx context.Context, msg models.WSMessage)
}

// Controller owns the active study session: the library⇄player view
// mode, the grade ledger, and the gesture machine for the card under
// the user's finger. The repository stays the source of truth for deck
// contents; the controller holds only the active deck's id.
type Controller struct {
	mu        sync.Mutex
	repo      *repository.DeckRepo
	publisher Publisher

	view     models.ViewMode
	activeID string
	grades   map[string]models.Grade

	card   *gesture.Machine
	cardID string
}

func NewController(repo *repository.DeckRepo, publisher Publisher) *Controller {
	return &Controller{
		repo:      repo,
		publisher: publisher,
		view:      models.ViewLibrary,
		grades:    map[string]models.Grade{},
	}
}

// SelectDeck transitions library→player. The grade ledger always starts
// empty, so grades can never leak across decks.
func (c *Controller) SelectDeck(ctx context.Context, deckID string) error {
	if _, err := c.repo.Deck(deckID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = models.ViewPlayer
	c.activeID = deckID
	c.grades = map[string]models.Grade{}
	c.card = nil
	c.cardID = ""
	return nil
}

// ExitToLibrary transitions player→library and clears the session.
func (c *Controller) ExitToLibrary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exitLocked()
}

func (c *Controller) exitLocked() {
	c.view = models.ViewLibrary
	c.activeID = ""
	c.grades = map[string]models.Grade{}
	c.card = nil
	c.cardID = ""
}

// Restart clears the ledger without leaving the player and tells the
// renderer to scroll back to the first card.
func (c *Controller) Restart(ctx context.Context) error {
	c.mu.Lock()
	if c.view != models.ViewPlayer {
		c.mu.Unlock()
		return &repository.ValidationError{Fields: map[string]string{"view": "no active session"}}
	}
	c.grades = map[string]models.Grade{}
	c.card = nil
	c.cardID = ""
	c.mu.Unlock()

	c.publish(ctx, models.WSMessage{Type: models.WSScrollTop})
	return nil
}

// Grade records a self-assessment. Grading the same card again
// overwrites the earlier entry. The advance signal is a side effect,
// decoupled from the ledger write.
func (c *Controller) Grade(ctx context.Context, cardID string, grade models.Grade) error {
	if !grade.Valid() {
		return &repository.ValidationError{Fields: map[string]string{"grade": "grade must be correct or incorrect"}}
	}

	c.mu.Lock()
	err := c.gradeLocked(cardID, grade)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.publish(ctx, models.WSMessage{Type: models.WSAdvance})
	return nil
}

func (c *Controller) gradeLocked(cardID string, grade models.Grade) error {
	if c.view != models.ViewPlayer {
		return &repository.ValidationError{Fields: map[string]string{"view": "no active session"}}
	}

	deck, err := c.repo.Deck(c.activeID)
	if err != nil {
		return err
	}
	found := false
	for _, card := range deck.Cards {
		if card.ID == cardID {
			found = true
			break
		}
	}
	if !found {
		return &repository.NotFoundError{Message: "Card not in active deck"}
	}

	c.grades[cardID] = grade
	return nil
}

// DeckDeleted tells the controller a deck is gone. Deleting the active
// deck ends the session.
func (c *Controller) DeckDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeID == id {
		c.exitLocked()
	}
}

// State snapshots the session for the renderer.
func (c *Controller) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	grades := make(map[string]models.Grade, len(c.grades))
	for k, v := range c.grades {
		grades[k] = v
	}

	return models.SessionState{
		View:         c.view,
		ActiveDeckID: c.activeID,
		Grades:       grades,
		Summary:      c.summaryLocked(),
	}
}

// Summary computes the session-end counts. An empty deck yields 0/0
// and 0% without a division error.
func (c *Controller) Summary() models.SessionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

func (c *Controller) summaryLocked() models.SessionSummary {
	s := models.SessionSummary{}
	if c.activeID == "" {
		return s
	}

	deck, err := c.repo.Deck(c.activeID)
	if err != nil {
		return s
	}

	s.Total = len(deck.Cards)
	for _, card := range deck.Cards {
		switch c.grades[card.ID] {
		case models.GradeCorrect:
			s.Correct++
		case models.GradeIncorrect:
			s.Incorrect++
		}
	}
	s.Skipped = s.Total - s.Correct - s.Incorrect
	if s.Total > 0 {
		s.Accuracy = int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
	}
	return s
}

// ActiveDeckID returns the current deck id, empty in library view.
func (c *Controller) ActiveDeckID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// ─── Gesture routing ───

// machineFor returns the gesture machine for the given card, discarding
// the previous card's machine when the finger lands on a new one.
// Callers must hold c.mu.
func (c *Controller) machineFor(cardID string) *gesture.Machine {
	if c.card == nil || c.cardID != cardID {
		c.card = gesture.NewMachine()
		c.cardID = cardID
	}
	return c.card
}

func (c *Controller) GestureStart(cardID string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machineFor(cardID).Start(x, y)
}

func (c *Controller) GestureMove(cardID string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machineFor(cardID).Move(x, y)
}

// GestureEnd resolves a release. A commit runs the same grading path as
// the explicit know/don't-know buttons, then settles the card back to
// neutral after the exit-animation delay.
func (c *Controller) GestureEnd(ctx context.Context, cardID string) (gesture.Outcome, error) {
	c.mu.Lock()
	m := c.machineFor(cardID)
	outcome := m.End()
	var err error
	if outcome.Committed {
		err = c.gradeLocked(cardID, outcome.Grade)
		time.AfterFunc(gesture.SettleDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.cardID == cardID {
				m.Settle()
			}
		})
	}
	c.mu.Unlock()

	if err != nil {
		return gesture.Outcome{}, err
	}
	if outcome.Committed {
		c.publish(ctx, models.WSMessage{Type: models.WSAdvance})
	}
	return outcome, nil
}

func (c *Controller) GestureTap(cardID string, targetIsControl bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machineFor(cardID).Tap(targetIsControl)
}

func (c *Controller) GestureVisual(cardID string) gesture.Visual {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machineFor(cardID).Visual()
}

func (c *Controller) publish(ctx context.Context, msg models.WSMessage) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(ctx, msg)
}
