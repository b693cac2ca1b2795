package session

import (
	"errors"
	"time"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
)

var ErrNotYourTurn = errors.New("not your turn")
var ErrTransportClosed = errors.New("transport not open")
var ErrStaleAction = errors.New("action key not offered by latest snapshot")
var ErrAnimating = errors.New("animation in progress")
var ErrNoSnapshot = errors.New("no snapshot received yet")
var ErrUnsupportedInput = errors.New("unsupported input")

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnimating Phase = "animating"
)

type Config struct {
	Self              engine.PlayerID
	AnimationDuration time.Duration
	// SendDelay holds a local action back after selection. It must be at
	// least AnimationDuration.
	SendDelay time.Duration
	// SkipEcho commits a snapshot caused by the action the local player just
	// sent without animating it a second time.
	SkipEcho bool
}

func DefaultConfig() Config {
	return Config{
		Self:              engine.Player1,
		AnimationDuration: 1500 * time.Millisecond,
		SendDelay:         2500 * time.Millisecond,
	}
}

// Outgoing is a local action waiting for its send timer.
type Outgoing struct {
	Key    string
	Action engine.Action
	Base   int // Seq of the snapshot the action was chosen from
}

// Session is the whole client-side state of one game. It is a value: every
// handler takes one and returns the one to keep.
type Session struct {
	Config Config
	Self   engine.PlayerID

	Phase          Phase
	Animation      engine.Animation
	LocalAnimation bool

	Visible *engine.Snapshot
	Pending *engine.Snapshot
	Latest  *engine.Snapshot

	Received  int
	Submitted bool
	Outgoing  *Outgoing
	LastSent  *engine.Action
	GameOver  string

	animTimer uint64
	sendTimer uint64
	nextTimer uint64
}

func New(cfg Config) Session {
	return Session{
		Config:    cfg,
		Self:      cfg.Self,
		Phase:     PhaseIdle,
		Animation: engine.None{},
	}
}

// YourTurn reports whether the local player may select an action now.
// An explicit current_player wins; otherwise the server only offers actions
// on the local player's turn.
func (s Session) YourTurn() bool {
	if s.Latest == nil || s.Submitted || s.GameOver != "" {
		return false
	}
	if s.Latest.CurrentPlayer.Valid() {
		return s.Self.Valid() && s.Latest.CurrentPlayer == s.Self
	}
	return len(s.Latest.Actions) > 0
}

// Version is the Seq of the visible snapshot, 0 before the first commit.
func (s Session) Version() int {
	if s.Visible == nil {
		return 0
	}
	return s.Visible.Seq
}

type Input interface{ isInput() }

type SnapshotArrived struct {
	Snapshot engine.Snapshot
}

type TimerFired struct {
	ID uint64
}

// ActionSelected carries the transport's is-open state sampled by the caller,
// keeping Apply free of I/O.
type ActionSelected struct {
	Key           string
	TransportOpen bool
}

type GameEnded struct {
	Message string
}

func (SnapshotArrived) isInput() {}
func (TimerFired) isInput()      {}
func (ActionSelected) isInput()  {}
func (GameEnded) isInput()       {}

type Effect interface{ isEffect() }

type StartTimer struct {
	ID    uint64
	After time.Duration
}

type Transmit struct {
	Key    string
	Action engine.Action
}

type Committed struct {
	Seq int
}

type AnimationStarted struct {
	Animation engine.Animation
	Local     bool
}

type AnimationEnded struct{}

// Coalesced reports a pending snapshot replaced before it was ever shown.
type Coalesced struct {
	Dropped int
	By      int
}

type Unclassified struct {
	Seq int
	Err error
}

type GameFinished struct {
	Message  string
	Score    float64
	HasScore bool
}

func (StartTimer) isEffect()       {}
func (Transmit) isEffect()         {}
func (Committed) isEffect()        {}
func (AnimationStarted) isEffect() {}
func (AnimationEnded) isEffect()   {}
func (Coalesced) isEffect()        {}
func (Unclassified) isEffect()     {}
func (GameFinished) isEffect()     {}

func ContainsEffect[T Effect](effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(T); ok {
			return true
		}
	}
	return false
}
