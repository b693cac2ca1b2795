package engine

import (
	"errors"
	"testing"
)

func TestResolveHint_Matching(t *testing.T) {
	own := []OwnSlot{
		{Index: 0, Knowledge: Knowledge{Revealed: "X2"}},
		{Index: 1, Knowledge: Knowledge{Revealed: "R2"}},
		{Index: 2, Knowledge: Knowledge{Revealed: "RX"}},
		{Index: 3, Knowledge: Knowledge{Revealed: ""}},
	}
	opp := []OpponentSlot{
		{Index: 0, Card: Card{Color: ColorRed, Rank: 0}},
		{Index: 1, Card: Card{Color: ColorBlue, Rank: 1}},
		{Index: 2, Card: Card{Color: ColorRed, Rank: 1}},
	}

	cases := []struct {
		name     string
		ht       HintType
		value    string
		revealer PlayerID
		self     PlayerID
		target   PlayerID
		want     []int
	}{
		{name: "local reveals color to opponent", ht: HintColor, value: "R", revealer: Player1, self: Player1, target: Player0, want: []int{0, 2}},
		{name: "local reveals rank to opponent", ht: HintRank, value: "2", revealer: Player1, self: Player1, target: Player0, want: []int{1, 2}},
		{name: "opponent reveals rank to local", ht: HintRank, value: "2", revealer: Player0, self: Player1, target: Player1, want: []int{0, 1}},
		{name: "opponent reveals color to local", ht: HintColor, value: "R", revealer: Player0, self: Player1, target: Player1, want: []int{1, 2}},
		{name: "no match", ht: HintColor, value: "G", revealer: Player1, self: Player1, target: Player0, want: []int{}},
		{name: "seat zero as receiver", ht: HintColor, value: "R", revealer: Player1, self: Player0, target: Player0, want: []int{1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := ResolveHint(tc.ht, tc.value, tc.revealer, tc.self, own, opp)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if h.Target != tc.target {
				t.Fatalf("target: got %d, want %d", h.Target, tc.target)
			}
			if h.Affected == nil {
				t.Fatalf("affected must never be nil")
			}
			if len(h.Affected) != len(tc.want) {
				t.Fatalf("affected: got %v, want %v", h.Affected, tc.want)
			}
			for i := range tc.want {
				if h.Affected[i] != tc.want[i] {
					t.Fatalf("affected: got %v, want %v", h.Affected, tc.want)
				}
			}
		})
	}
}

// The annotation says red while the real card (which the client never sees)
// would be blue; the resolver can only follow the annotation.
func TestResolveHint_SelfFollowsAnnotation(t *testing.T) {
	obs := decodeFixture(t, `{
		"info": {"life_tokens": 3, "info_tokens": 7, "deck_size": 30,
			"fireworks": {"R": 0, "Y": 0, "G": 0, "W": 0, "B": 0},
			"discards": [],
			"hands": {
				"cur_player": [
					{"index": 0, "card": "B2", "info": "RX", "col": ["R"], "rank": ["1","2","3","4","5"]},
					{"index": 1, "card": "R1", "info": "XX", "col": ["Y","G","W","B"], "rank": ["1","2","3","4","5"]}
				],
				"others": [{"index": 0, "card": "W3", "info": "XX", "col": [], "rank": []}]
			}},
		"actions": {},
		"last_action": {"player_id": 0, "action": {"action_type": "REVEAL_COLOR", "target_offset": 1, "color": "R"}}
	}`)

	h, err := ResolveHint(HintColor, "R", Player0, Player1, obs.OwnHand, obs.OpponentHand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(h.Affected) != 1 || h.Affected[0] != 0 {
		t.Fatalf("affected: got %v, want [0]", h.Affected)
	}
}

func TestResolveHint_Errors(t *testing.T) {
	cases := []struct {
		name     string
		ht       HintType
		revealer PlayerID
		self     PlayerID
		wantErr  error
	}{
		{name: "unknown self", ht: HintColor, revealer: Player0, self: PlayerUnknown, wantErr: ErrUnknownSelf},
		{name: "unknown revealer", ht: HintColor, revealer: PlayerUnknown, self: Player1, wantErr: ErrUnknownPlayer},
		{name: "bad hint type", ht: "suit", revealer: Player0, self: Player1, wantErr: ErrUnknownHint},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveHint(tc.ht, "R", tc.revealer, tc.self, nil, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}
