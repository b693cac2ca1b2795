package types

import (
	"github.com/DoyleJ11/hanabi-table/internal/engine"
	"github.com/DoyleJ11/hanabi-table/internal/table"
)

type ServerMessage struct {
	Type  string `json:"type"` // "View" | "Error"
	Error string `json:"error,omitempty"`
}

// ViewMessage is what browser renderers receive on every change.
type ViewMessage struct {
	Type           string        `json:"type"`
	SessionID      string        `json:"session_id"`
	Version        int           `json:"version"`
	Phase          string        `json:"phase"`
	Self           int           `json:"self"`
	YourTurn       bool          `json:"your_turn"`
	GameOver       string        `json:"game_over,omitempty"`
	State          *BoardState   `json:"state"`
	Animation      AnimationView `json:"animation"`
	LocalAnimation bool          `json:"local_animation,omitempty"`
	LastError      string        `json:"last_error,omitempty"`
}

// Ranks are 1-based here, as printed on the cards.
type BoardState struct {
	Seq           int             `json:"seq"`
	Fireworks     map[string]int  `json:"fireworks"`
	Discards      []string        `json:"discards"`
	OwnHand       []OwnSlotView   `json:"own_hand"`
	OpponentHand  []OpponentView  `json:"opponent_hand"`
	LifeTokens    int             `json:"life_tokens"`
	InfoTokens    int             `json:"info_tokens"`
	DeckSize      int             `json:"deck_size"`
	Actions       []ActionView    `json:"actions"`
	LastAction    *LastActionView `json:"last_action,omitempty"`
	CurrentPlayer int             `json:"current_player"`
}

type OwnSlotView struct {
	Index  int      `json:"index"`
	Info   string   `json:"info"`
	Colors []string `json:"col"`
	Ranks  []int    `json:"rank"`
}

type OpponentView struct {
	Index  int      `json:"index"`
	Card   string   `json:"card"`
	Info   string   `json:"info"`
	Colors []string `json:"col"`
	Ranks  []int    `json:"rank"`
}

type ActionView struct {
	Key          string `json:"key,omitempty"`
	Type         string `json:"action_type"`
	CardIndex    int    `json:"card_index"`
	TargetOffset int    `json:"target_offset,omitempty"`
	Color        string `json:"color,omitempty"`
	Rank         int    `json:"rank,omitempty"`
	Label        string `json:"label"`
}

type LastActionView struct {
	Player int        `json:"player_id"`
	Action ActionView `json:"action"`
}

// AnimationView flattens the animation variants. Kind is "none", "play",
// "discard" or "hint"; Affected is always a list, never null.
type AnimationView struct {
	Kind      string `json:"kind"`
	Player    int    `json:"player"`
	CardIndex int    `json:"card_index,omitempty"`
	HintType  string `json:"hint_type,omitempty"`
	Value     string `json:"value,omitempty"`
	Affected  []int  `json:"affected"`
}

func NewError(err error) ServerMessage {
	return ServerMessage{Type: "Error", Error: err.Error()}
}

func FromView(v table.View) ViewMessage {
	msg := ViewMessage{
		Type:           "View",
		SessionID:      v.SessionID,
		Version:        v.Version,
		Phase:          string(v.Phase),
		Self:           int(v.Self),
		YourTurn:       v.YourTurn,
		GameOver:       v.GameOver,
		Animation:      FromAnimation(v.Animation),
		LocalAnimation: v.LocalAnimation,
		LastError:      v.LastError,
	}
	if v.Visible != nil {
		msg.State = FromSnapshot(v.Visible)
	}
	return msg
}

func FromAnimation(a engine.Animation) AnimationView {
	switch a := a.(type) {
	case engine.PlayOrDiscard:
		kind := "play"
		if a.Kind == engine.ActionDiscard {
			kind = "discard"
		}
		return AnimationView{Kind: kind, Player: int(a.Player), CardIndex: a.CardIndex, Affected: []int{}}
	case engine.Hint:
		affected := a.Affected
		if affected == nil {
			affected = []int{}
		}
		return AnimationView{
			Kind:     "hint",
			Player:   int(a.Target),
			HintType: string(a.Type),
			Value:    a.Value,
			Affected: affected,
		}
	default:
		return AnimationView{Kind: "none", Player: int(engine.PlayerUnknown), Affected: []int{}}
	}
}

func FromSnapshot(s *engine.Snapshot) *BoardState {
	b := &BoardState{
		Seq:           s.Seq,
		Fireworks:     make(map[string]int, len(s.Fireworks)),
		Discards:      make([]string, 0, len(s.Discards)),
		OwnHand:       make([]OwnSlotView, 0, len(s.OwnHand)),
		OpponentHand:  make([]OpponentView, 0, len(s.OpponentHand)),
		LifeTokens:    s.LifeTokens,
		InfoTokens:    s.InfoTokens,
		DeckSize:      s.DeckSize,
		Actions:       make([]ActionView, 0, len(s.Actions)),
		CurrentPlayer: int(s.CurrentPlayer),
	}
	for c, n := range s.Fireworks {
		b.Fireworks[string(c)] = n
	}
	for _, c := range s.Discards {
		b.Discards = append(b.Discards, c.String())
	}
	for _, slot := range s.OwnHand {
		b.OwnHand = append(b.OwnHand, OwnSlotView{
			Index:  slot.Index,
			Info:   slot.Knowledge.Revealed,
			Colors: colorStrings(slot.Knowledge.Colors),
			Ranks:  oneBased(slot.Knowledge.Ranks),
		})
	}
	for _, slot := range s.OpponentHand {
		b.OpponentHand = append(b.OpponentHand, OpponentView{
			Index:  slot.Index,
			Card:   slot.Card.String(),
			Info:   slot.Knowledge.Revealed,
			Colors: colorStrings(slot.Knowledge.Colors),
			Ranks:  oneBased(slot.Knowledge.Ranks),
		})
	}
	for _, key := range engine.SortedActionKeys(s.Actions) {
		av := actionView(s.Actions[key])
		av.Key = key
		b.Actions = append(b.Actions, av)
	}
	if s.LastAction != nil {
		b.LastAction = &LastActionView{Player: int(s.LastAction.Player), Action: actionView(s.LastAction.Action)}
	}
	return b
}

func actionView(a engine.Action) ActionView {
	av := ActionView{
		Type:         string(a.Type),
		CardIndex:    a.CardIndex,
		TargetOffset: a.TargetOffset,
		Color:        string(a.Color),
		Label:        a.String(),
	}
	if a.Type == engine.ActionRevealRank {
		av.Rank = a.Rank + 1
	}
	return av
}

func colorStrings(cs []engine.Color) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, string(c))
	}
	return out
}

func oneBased(ranks []int) []int {
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r+1)
	}
	return out
}
