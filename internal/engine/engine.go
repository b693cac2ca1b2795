package engine

import (
	"errors"
	"strconv"
)

var ErrUnclassified = errors.New("unclassified action")
var ErrUnknownSelf = errors.New("local player id undetermined")
var ErrUnknownPlayer = errors.New("acting player id undetermined")
var ErrUnknownHint = errors.New("unsupported hint type")
var ErrMalformed = errors.New("malformed observation")

type PlayerID int

const (
	PlayerUnknown PlayerID = -1
	Player0       PlayerID = 0
	Player1       PlayerID = 1
)

func (p PlayerID) Valid() bool { return p == Player0 || p == Player1 }

// Opponent is 1 - p. The game is strictly two-player.
func (p PlayerID) Opponent() PlayerID {
	if !p.Valid() {
		return PlayerUnknown
	}
	return 1 - p
}

type ActionType string

const (
	ActionPlay        ActionType = "PLAY"
	ActionDiscard     ActionType = "DISCARD"
	ActionRevealColor ActionType = "REVEAL_COLOR"
	ActionRevealRank  ActionType = "REVEAL_RANK"
)

// Action is one legal move. Which fields are meaningful depends on Type:
// CardIndex for play/discard, Color or Rank plus TargetOffset for reveals.
type Action struct {
	Type         ActionType
	CardIndex    int
	TargetOffset int
	Color        Color
	Rank         int // 0-based
}

type Card struct {
	Color Color
	Rank  int // 0-based
}

func (c Card) String() string { return string(c.Color) + strconv.Itoa(c.Rank+1) }

// Knowledge is what a player has been told about a slot. Revealed is the
// server's two-character annotation ("RX", "X3", "XX"); Colors and Ranks are
// the remaining possibilities.
type Knowledge struct {
	Revealed string
	Colors   []Color
	Ranks    []int // 0-based
}

// OwnSlot carries no identity: the local player can only ever see what was
// revealed about their own cards.
type OwnSlot struct {
	Index     int
	Knowledge Knowledge
}

type OpponentSlot struct {
	Index     int
	Card      Card
	Knowledge Knowledge
}

type LastAction struct {
	Player PlayerID
	Action Action
}

// Snapshot is one server push. It is never modified after decoding; the
// session assigns Seq on arrival and the copy it stores is final.
type Snapshot struct {
	Seq           int
	Fireworks     map[Color]int
	Discards      []Card
	OwnHand       []OwnSlot
	OpponentHand  []OpponentSlot
	LifeTokens    int
	InfoTokens    int
	DeckSize      int
	Actions       map[string]Action
	LastAction    *LastAction
	Self          PlayerID
	CurrentPlayer PlayerID
}

type HintType string

const (
	HintColor HintType = "color"
	HintRank  HintType = "rank"
)

// Animation is the closed set of visual effects a causing action can produce:
// None, PlayOrDiscard or Hint.
type Animation interface{ isAnimation() }

type None struct{}

// PlayOrDiscard animates the card at CardIndex leaving Player's hand.
// CardIndex refers to the hand before the card was removed.
type PlayOrDiscard struct {
	Player    PlayerID
	CardIndex int
	Kind      ActionType
}

// Hint highlights the Affected slots of Target's hand.
type Hint struct {
	Target   PlayerID
	Type     HintType
	Value    string
	Affected []int
}

func (None) isAnimation()          {}
func (PlayOrDiscard) isAnimation() {}
func (Hint) isAnimation()          {}

// IsNone reports whether a carries no visual effect. A nil Animation counts
// as None.
func IsNone(a Animation) bool {
	switch a.(type) {
	case nil, None:
		return true
	default:
		return false
	}
}
