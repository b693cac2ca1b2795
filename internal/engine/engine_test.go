package engine

import (
	"errors"
	"testing"
)

func boardWithHands(own []OwnSlot, opp []OpponentSlot) Snapshot {
	return Snapshot{
		Fireworks:     map[Color]int{ColorRed: 0, ColorYellow: 0, ColorGreen: 0, ColorWhite: 0, ColorBlue: 0},
		OwnHand:       own,
		OpponentHand:  opp,
		LifeTokens:    3,
		InfoTokens:    8,
		DeckSize:      40,
		Actions:       map[string]Action{},
		Self:          PlayerUnknown,
		CurrentPlayer: PlayerUnknown,
	}
}

func withLast(s Snapshot, p PlayerID, a Action) Snapshot {
	s.LastAction = &LastAction{Player: p, Action: a}
	return s
}

func TestClassify_NoneWithoutCause(t *testing.T) {
	prev := boardWithHands(nil, nil)
	cases := []struct {
		name string
		prev *Snapshot
		next Snapshot
	}{
		{
			name: "first push",
			prev: nil,
			next: withLast(boardWithHands(nil, nil), Player0, Action{Type: ActionPlay, CardIndex: 1}),
		},
		{
			name: "no last action",
			prev: &prev,
			next: boardWithHands(nil, nil),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			anim, err := Classify(tc.prev, tc.next, Player1)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if _, ok := anim.(None); !ok {
				t.Fatalf("got %#v, want None", anim)
			}
		})
	}
}

func TestClassify_PlayAndDiscardKeepCardIndex(t *testing.T) {
	prev := boardWithHands(nil, nil)
	cases := []struct {
		name string
		act  Action
	}{
		{name: "play", act: Action{Type: ActionPlay, CardIndex: 2}},
		{name: "discard", act: Action{Type: ActionDiscard, CardIndex: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := withLast(boardWithHands(nil, nil), Player0, tc.act)
			anim, err := Classify(&prev, next, Player1)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			want := PlayOrDiscard{Player: Player0, CardIndex: tc.act.CardIndex, Kind: tc.act.Type}
			if anim != want {
				t.Fatalf("got %#v, want %#v", anim, want)
			}
		})
	}
}

func TestClassify_RevealRankIsOneBased(t *testing.T) {
	prev := boardWithHands(nil, nil)
	opp := []OpponentSlot{{Index: 0, Card: Card{Color: ColorGreen, Rank: 2}}, {Index: 1, Card: Card{Color: ColorGreen, Rank: 0}}}
	next := withLast(boardWithHands(nil, opp), Player1, Action{Type: ActionRevealRank, Rank: 2, TargetOffset: 1})

	anim, err := Classify(&prev, next, Player1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	h, ok := anim.(Hint)
	if !ok {
		t.Fatalf("got %#v, want Hint", anim)
	}
	if h.Value != "3" {
		t.Fatalf("hint value: got %q, want %q", h.Value, "3")
	}
	if h.Target != Player0 || len(h.Affected) != 1 || h.Affected[0] != 0 {
		t.Fatalf("got %#v, want target 0 affecting [0]", h)
	}
}

func TestClassify_UnknownActionTypeIsNone(t *testing.T) {
	prev := boardWithHands(nil, nil)
	next := withLast(boardWithHands(nil, nil), Player0, Action{Type: "SHUFFLE"})

	anim, err := Classify(&prev, next, Player1)
	if !errors.Is(err, ErrUnclassified) {
		t.Fatalf("want ErrUnclassified, got %v", err)
	}
	if !IsNone(anim) {
		t.Fatalf("got %#v, want None", anim)
	}
}

// Player 0 hints red; the local player 1 is the receiver. Slot 0 is now
// annotated red, slot 1 is not.
func TestClassify_ColorHintOnLocalHand(t *testing.T) {
	prevOpp := []OpponentSlot{{Index: 0, Card: Card{Color: ColorRed, Rank: 0}}, {Index: 1, Card: Card{Color: ColorBlue, Rank: 1}}}
	prev := boardWithHands(nil, prevOpp)

	own := []OwnSlot{
		{Index: 0, Knowledge: Knowledge{Revealed: "RX", Colors: []Color{ColorRed}}},
		{Index: 1, Knowledge: Knowledge{Revealed: "XX"}},
	}
	next := withLast(boardWithHands(own, prevOpp), Player0, Action{Type: ActionRevealColor, Color: ColorRed, TargetOffset: 1})

	anim, err := Classify(&prev, next, Player1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	h, ok := anim.(Hint)
	if !ok {
		t.Fatalf("got %#v, want Hint", anim)
	}
	if h.Target != Player1 || h.Type != HintColor || h.Value != "R" {
		t.Fatalf("got %#v", h)
	}
	if len(h.Affected) != 1 || h.Affected[0] != 0 {
		t.Fatalf("affected: got %v, want [0]", h.Affected)
	}
}

func TestClassify_HintWithUnknownSelfIsNone(t *testing.T) {
	prev := boardWithHands(nil, nil)
	next := withLast(boardWithHands(nil, nil), Player0, Action{Type: ActionRevealColor, Color: ColorRed})

	anim, err := Classify(&prev, next, PlayerUnknown)
	if !errors.Is(err, ErrUnknownSelf) {
		t.Fatalf("want ErrUnknownSelf, got %v", err)
	}
	if !IsNone(anim) {
		t.Fatalf("got %#v, want None", anim)
	}
}

func TestDescribe_LocalRevealTargetsOpponent(t *testing.T) {
	opp := []OpponentSlot{
		{Index: 0, Card: Card{Color: ColorWhite, Rank: 1}},
		{Index: 1, Card: Card{Color: ColorYellow, Rank: 1}},
		{Index: 2, Card: Card{Color: ColorWhite, Rank: 4}},
	}
	pre := boardWithHands(nil, opp)

	anim, err := Describe(Action{Type: ActionRevealColor, Color: ColorWhite}, Player1, Player1, &pre)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	h := anim.(Hint)
	if h.Target != Player0 {
		t.Fatalf("target: got %d, want 0", h.Target)
	}
	if len(h.Affected) != 2 || h.Affected[0] != 0 || h.Affected[1] != 2 {
		t.Fatalf("affected: got %v, want [0 2]", h.Affected)
	}
}

func TestOpponent(t *testing.T) {
	if Player0.Opponent() != Player1 || Player1.Opponent() != Player0 {
		t.Fatalf("opponent of 0/1 must be 1/0")
	}
	if PlayerUnknown.Opponent() != PlayerUnknown {
		t.Fatalf("opponent of unknown must stay unknown")
	}
}
