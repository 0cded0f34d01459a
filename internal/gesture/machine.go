package gesture

import (
	"time"

	"flashscroll-backend/internal/models"
)

// Tuning constants, in the renderer's distance units (CSS pixels).
const (
	// CommitThreshold is the horizontal travel past which a release
	// records a grade. Strictly past: travel of exactly 100 still
	// cancels.
	CommitThreshold = 100
	// HighlightThreshold is where the directional highlight fades in,
	// bounding anticipation feedback below the commit distance.
	HighlightThreshold = 50
	// TapJitter is the movement tolerance under which a press+release
	// still counts as a tap.
	TapJitter = 5
	// RotationFactor scales offset into the card's tilt in degrees.
	RotationFactor = 0.05
	// SettleDelay is how long a committed card holds its off-screen
	// offset before snapping back to neutral. Fixed-timer assumption:
	// decoupled from the renderer's exit animation.
	SettleDelay = 200 * time.Millisecond
)

// Phase is where the gesture is in its lifecycle.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseDragging           Phase = "dragging"
	PhaseCommittedCorrect   Phase = "committed_correct"
	PhaseCommittedIncorrect Phase = "committed_incorrect"
	PhaseCancelled          Phase = "cancelled"
)

// Outcome is what a released gesture resolved to.
type Outcome struct {
	Committed bool
	Grade     models.Grade
}

// Visual is the renderer-facing projection of the machine. It is pure
// derivation: any renderer can restate it from the same state.
type Visual struct {
	OffsetX   float64 `json:"offset_x"`
	Rotation  float64 `json:"rotation"`
	Highlight int     `json:"highlight"` // +1 correct side, -1 incorrect side, 0 none
	Flipped   bool    `json:"flipped"`
	Dragging  bool    `json:"dragging"`
}

// Machine tracks one visible card's gesture state. It is scoped to that
// card instance and discarded when the card leaves the screen.
type Machine struct {
	phase    Phase
	originX  float64
	originY  float64
	offsetX  float64
	flipped  bool
	tracking bool // origin coordinates are valid
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseIdle}
}

func (m *Machine) Phase() Phase { return m.phase }

// Start records the press origin and enters dragging. The offset is
// zeroed here so a committed card still holding its off-screen offset
// cannot re-commit from a stale value on the next release.
func (m *Machine) Start(x, y float64) {
	m.originX = x
	m.originY = y
	m.offsetX = 0
	m.tracking = true
	m.phase = PhaseDragging
}

// Move applies a drag sample. The horizontal offset only updates while
// the sample is more horizontal than vertical, so a vertical scroll
// gesture is never misread as a swipe.
func (m *Machine) Move(x, y float64) {
	if m.phase != PhaseDragging || !m.tracking {
		return
	}

	deltaX := x - m.originX
	deltaY := y - m.originY
	if abs(deltaX) > abs(deltaY) {
		m.offsetX = deltaX
	}
}

// End resolves the release. Past the commit threshold the grade is
// recorded and the offset is retained for the exit animation until
// Settle; below it the offset snaps back to neutral immediately.
func (m *Machine) End() Outcome {
	if m.phase != PhaseDragging {
		return Outcome{}
	}
	m.tracking = false

	if abs(m.offsetX) > CommitThreshold {
		if m.offsetX > 0 {
			m.phase = PhaseCommittedCorrect
			return Outcome{Committed: true, Grade: models.GradeCorrect}
		}
		m.phase = PhaseCommittedIncorrect
		return Outcome{Committed: true, Grade: models.GradeIncorrect}
	}

	// cancelled settles immediately
	m.offsetX = 0
	m.phase = PhaseIdle
	return Outcome{}
}

// Settle returns a committed card to neutral. The session controller
// schedules it SettleDelay after a commit.
func (m *Machine) Settle() {
	if m.phase != PhaseCommittedCorrect && m.phase != PhaseCommittedIncorrect {
		return
	}
	m.offsetX = 0
	m.phase = PhaseIdle
}

// Tap toggles the flip state. Ignored while the card has moved past the
// jitter tolerance or when the press targeted an embedded control such
// as the delete button.
func (m *Machine) Tap(targetIsControl bool) {
	if targetIsControl {
		return
	}
	if abs(m.offsetX) > TapJitter {
		return
	}
	m.flipped = !m.flipped
}

func (m *Machine) Flipped() bool { return m.flipped }

// Visual derives the renderer-facing state.
func (m *Machine) Visual() Visual {
	v := Visual{
		OffsetX:  m.offsetX,
		Rotation: m.offsetX * RotationFactor,
		Flipped:  m.flipped,
		Dragging: m.phase == PhaseDragging,
	}
	if m.offsetX > HighlightThreshold {
		v.Highlight = 1
	} else if m.offsetX < -HighlightThreshold {
		v.Highlight = -1
	}
	return v
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
