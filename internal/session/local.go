package session

import (
	"fmt"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
)

// onSelect starts the local player's own animation straight away and arms
// the send timer. Nothing reaches the transport until that timer fires.
func onSelect(s Session, msg ActionSelected) ([]Effect, Session, error) {
	if !msg.TransportOpen {
		return nil, s, ErrTransportClosed
	}
	if s.Latest == nil {
		return nil, s, ErrNoSnapshot
	}
	if !s.YourTurn() {
		return nil, s, ErrNotYourTurn
	}
	act, ok := s.Latest.Actions[msg.Key]
	if !ok {
		return nil, s, fmt.Errorf("%w: %q", ErrStaleAction, msg.Key)
	}
	if s.Phase == PhaseAnimating {
		return nil, s, ErrAnimating
	}

	var effects []Effect
	anim, err := engine.Describe(act, s.Self, s.Self, s.Latest)
	if err != nil {
		effects = append(effects, Unclassified{Seq: s.Latest.Seq, Err: err})
	}

	s.Submitted = true
	s.Outgoing = &Outgoing{Key: msg.Key, Action: act, Base: s.Latest.Seq}

	if !engine.IsNone(anim) {
		s.nextTimer++
		s.animTimer = s.nextTimer
		s.Phase = PhaseAnimating
		s.Animation = anim
		s.LocalAnimation = true
		effects = append(effects,
			AnimationStarted{Animation: anim, Local: true},
			StartTimer{ID: s.animTimer, After: s.Config.AnimationDuration},
		)
	}

	s.nextTimer++
	s.sendTimer = s.nextTimer
	effects = append(effects, StartTimer{ID: s.sendTimer, After: s.Config.SendDelay})
	return effects, s, nil
}

// flushOutgoing releases the held action. A snapshot that arrived during
// the hold and no longer offers the same action under the key cancels it.
func flushOutgoing(s Session) ([]Effect, Session, error) {
	s.sendTimer = 0
	out := s.Outgoing
	s.Outgoing = nil
	if out == nil {
		return nil, s, nil
	}

	if s.Latest.Seq != out.Base {
		if act, ok := s.Latest.Actions[out.Key]; !ok || act != out.Action {
			s.Submitted = false
			return nil, s, fmt.Errorf("%w: %q", ErrStaleAction, out.Key)
		}
	}

	act := out.Action
	s.LastSent = &act
	return []Effect{Transmit{Key: out.Key, Action: act}}, s, nil
}
