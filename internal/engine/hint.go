package engine

import "fmt"

// ResolveHint finds the slots a reveal affects. The non-revealing player is
// always the target. Opponent slots are matched on their identity; the local
// player's own slots are matched on their annotation only.
func ResolveHint(ht HintType, value string, revealer, self PlayerID, own []OwnSlot, opp []OpponentSlot) (Hint, error) {
	if !self.Valid() {
		return Hint{}, ErrUnknownSelf
	}
	if !revealer.Valid() {
		return Hint{}, ErrUnknownPlayer
	}
	if ht != HintColor && ht != HintRank {
		return Hint{}, fmt.Errorf("%w: %q", ErrUnknownHint, ht)
	}

	h := Hint{Target: revealer.Opponent(), Type: ht, Value: value, Affected: []int{}}

	if h.Target == self {
		for _, slot := range own {
			if slot.Knowledge.matches(ht, value) {
				h.Affected = append(h.Affected, slot.Index)
			}
		}
		return h, nil
	}

	for _, slot := range opp {
		if slot.Card.matches(ht, value) {
			h.Affected = append(h.Affected, slot.Index)
		}
	}
	return h, nil
}

func (c Card) matches(ht HintType, value string) bool {
	s := c.String()
	if ht == HintColor {
		return s[:1] == value
	}
	return s[1:] == value
}

// Revealed is "CR": first character the color letter, second the rank
// digit, "X" where unknown.
func (k Knowledge) matches(ht HintType, value string) bool {
	if len(k.Revealed) < 2 {
		return false
	}
	if ht == HintColor {
		return k.Revealed[:1] == value
	}
	return k.Revealed[1:2] == value
}
