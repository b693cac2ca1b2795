package engine

import (
	"fmt"
	"strconv"
)

// Classify derives the animation for the action that produced next. There
// is nothing to animate on the first push or when next has no last action.
func Classify(prev *Snapshot, next Snapshot, self PlayerID) (Animation, error) {
	if prev == nil || next.LastAction == nil {
		return None{}, nil
	}
	return Describe(next.LastAction.Action, next.LastAction.Player, self, &next)
}

// Describe builds the animation for act performed by actor. Hints resolve
// against the hands in snap: the post-action snapshot for server pushes, the
// pre-action one for the local player's own move.
func Describe(act Action, actor, self PlayerID, snap *Snapshot) (Animation, error) {
	var own []OwnSlot
	var opp []OpponentSlot
	if snap != nil {
		own, opp = snap.OwnHand, snap.OpponentHand
	}

	switch act.Type {
	case ActionPlay, ActionDiscard:
		return PlayOrDiscard{Player: actor, CardIndex: act.CardIndex, Kind: act.Type}, nil
	case ActionRevealColor:
		h, err := ResolveHint(HintColor, string(act.Color), actor, self, own, opp)
		if err != nil {
			return None{}, err
		}
		return h, nil
	case ActionRevealRank:
		h, err := ResolveHint(HintRank, strconv.Itoa(act.Rank+1), actor, self, own, opp)
		if err != nil {
			return None{}, err
		}
		return h, nil
	default:
		return None{}, fmt.Errorf("%w: %q", ErrUnclassified, act.Type)
	}
}
