package engine

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/DoyleJ11/hanabi-table/pkg/types"
)

// FromObservation converts a decoded server push into a Snapshot. Own-hand
// entries are built from their annotations only.
func FromObservation(obs types.Observation) (Snapshot, error) {
	if obs.Info == nil {
		return Snapshot{}, fmt.Errorf("%w: missing info", ErrMalformed)
	}
	info := obs.Info

	s := Snapshot{
		Fireworks:     make(map[Color]int, len(Colors)),
		Discards:      make([]Card, 0, len(info.Discards)),
		OwnHand:       make([]OwnSlot, 0, len(info.Hands.CurPlayer)),
		OpponentHand:  make([]OpponentSlot, 0, len(info.Hands.Others)),
		LifeTokens:    info.LifeTokens,
		InfoTokens:    info.InfoTokens,
		DeckSize:      info.DeckSize,
		Actions:       make(map[string]Action, len(obs.Actions)),
		Self:          PlayerUnknown,
		CurrentPlayer: PlayerUnknown,
	}

	for k, v := range info.Fireworks {
		c, err := ParseColor(k)
		if err != nil {
			return Snapshot{}, err
		}
		s.Fireworks[c] = v
	}

	for _, d := range info.Discards {
		card, err := ParseCard(d)
		if err != nil {
			return Snapshot{}, err
		}
		s.Discards = append(s.Discards, card)
	}

	for _, own := range info.Hands.CurPlayer {
		k, err := toKnowledge(own.Info, own.Col, own.Rank)
		if err != nil {
			return Snapshot{}, err
		}
		s.OwnHand = append(s.OwnHand, OwnSlot{Index: own.Index, Knowledge: k})
	}

	for _, other := range info.Hands.Others {
		card, err := ParseCard(other.Card)
		if err != nil {
			return Snapshot{}, err
		}
		k, err := toKnowledge(other.Info, other.Col, other.Rank)
		if err != nil {
			return Snapshot{}, err
		}
		s.OpponentHand = append(s.OpponentHand, OpponentSlot{Index: other.Index, Card: card, Knowledge: k})
	}

	for key, a := range obs.Actions {
		act, err := toAction(a)
		if err != nil {
			return Snapshot{}, err
		}
		s.Actions[key] = act
	}

	if la := obs.LastAction; la != nil && la.PlayerID != int(PlayerUnknown) && la.Action != nil {
		p, err := toPlayer(la.PlayerID)
		if err != nil {
			return Snapshot{}, err
		}
		act, err := toAction(*la.Action)
		if err != nil {
			return Snapshot{}, err
		}
		s.LastAction = &LastAction{Player: p, Action: act}
	}

	if obs.PlayerID != nil {
		p, err := toPlayer(*obs.PlayerID)
		if err != nil {
			return Snapshot{}, err
		}
		s.Self = p
	}
	if obs.CurrentPlayer != nil {
		p, err := toPlayer(*obs.CurrentPlayer)
		if err != nil {
			return Snapshot{}, err
		}
		s.CurrentPlayer = p
	}

	return s, nil
}

func toPlayer(id int) (PlayerID, error) {
	p := PlayerID(id)
	if !p.Valid() {
		return PlayerUnknown, fmt.Errorf("%w: player id %d", ErrMalformed, id)
	}
	return p, nil
}

// Unknown action types pass through untouched; Classify decides what to do
// with them.
func toAction(a types.Action) (Action, error) {
	act := Action{
		Type:         ActionType(a.ActionType),
		CardIndex:    a.CardIndex,
		TargetOffset: a.TargetOffset,
		Rank:         a.Rank,
	}
	if a.Color != "" {
		c, err := ParseColor(a.Color)
		if err != nil {
			return Action{}, err
		}
		act.Color = c
	}
	return act, nil
}

func toKnowledge(revealed string, cols, ranks []string) (Knowledge, error) {
	k := Knowledge{Revealed: revealed}
	for _, col := range cols {
		c, err := ParseColor(col)
		if err != nil {
			return Knowledge{}, err
		}
		k.Colors = append(k.Colors, c)
	}
	for _, rank := range ranks {
		r, err := ParseRank(rank)
		if err != nil {
			return Knowledge{}, err
		}
		k.Ranks = append(k.Ranks, r)
	}
	return k, nil
}

// SortedActionKeys orders keys numerically when they are numbers, which is
// how the server numbers legal moves.
func SortedActionKeys(actions map[string]Action) []string {
	keys := make([]string, 0, len(actions))
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlay, ActionDiscard:
		return fmt.Sprintf("%s %d", a.Type, a.CardIndex)
	case ActionRevealColor:
		return fmt.Sprintf("%s %s", a.Type, a.Color)
	case ActionRevealRank:
		return fmt.Sprintf("%s %d", a.Type, a.Rank+1)
	default:
		return string(a.Type)
	}
}
