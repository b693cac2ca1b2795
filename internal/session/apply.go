package session

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
)

/*
	SnapshotArrived, Idle, classifies to None -> Committed
	SnapshotArrived, Idle, otherwise          -> AnimationStarted, StartTimer (snapshot held as Pending)
	SnapshotArrived, Animating                -> Coalesced (Pending replaced, timer untouched)
	TimerFired, animation timer               -> AnimationEnded, Committed if anything is Pending
	ActionSelected                            -> AnimationStarted, StartTimer x2 (animation, send)
	TimerFired, send timer                    -> Transmit
	GameEnded                                 -> GameFinished
*/

// Apply runs one input through the session. The returned Session is always
// the one to keep; a non-nil error means the input was rejected or only
// partly honored and is meant for logging.
func Apply(s Session, in Input) ([]Effect, Session, error) {
	switch msg := in.(type) {
	case SnapshotArrived:
		return onSnapshot(s, msg.Snapshot)
	case TimerFired:
		return onTimer(s, msg.ID)
	case ActionSelected:
		return onSelect(s, msg)
	case GameEnded:
		return onGameEnded(s, msg.Message)
	default:
		return nil, s, fmt.Errorf("%w: %T", ErrUnsupportedInput, in)
	}
}

func onSnapshot(s Session, snap engine.Snapshot) ([]Effect, Session, error) {
	s.Received++
	snap.Seq = s.Received
	if snap.Self.Valid() {
		s.Self = snap.Self
	}
	next := &snap
	s.Latest = next
	if s.Outgoing == nil {
		s.Submitted = false
	}

	if s.Phase == PhaseAnimating {
		var effects []Effect
		if s.Pending != nil {
			effects = append(effects, Coalesced{Dropped: s.Pending.Seq, By: next.Seq})
		}
		s.Pending = next
		return effects, s, nil
	}

	if s.isEcho(snap) {
		s.LastSent = nil
		s = commit(s, next)
		return []Effect{Committed{Seq: next.Seq}}, s, nil
	}

	var effects []Effect
	anim, err := engine.Classify(s.Visible, snap, s.Self)
	if err != nil {
		effects = append(effects, Unclassified{Seq: next.Seq, Err: err})
	}

	if engine.IsNone(anim) {
		s = commit(s, next)
		return append(effects, Committed{Seq: next.Seq}), s, nil
	}

	s.nextTimer++
	s.animTimer = s.nextTimer
	s.Phase = PhaseAnimating
	s.Animation = anim
	s.LocalAnimation = false
	s.Pending = next

	effects = append(effects,
		AnimationStarted{Animation: anim},
		StartTimer{ID: s.animTimer, After: s.Config.AnimationDuration},
	)
	return effects, s, nil
}

func onTimer(s Session, id uint64) ([]Effect, Session, error) {
	switch {
	case id == 0:
		return nil, s, nil
	case id == s.animTimer:
		return endAnimation(s)
	case id == s.sendTimer:
		return flushOutgoing(s)
	default:
		// A timer from an animation that already ended.
		return nil, s, nil
	}
}

func endAnimation(s Session) ([]Effect, Session, error) {
	s.animTimer = 0
	s.Phase = PhaseIdle
	s.Animation = engine.None{}
	s.LocalAnimation = false

	effects := []Effect{AnimationEnded{}}
	if s.Pending != nil {
		next := s.Pending
		s = commit(s, next)
		effects = append(effects, Committed{Seq: next.Seq})
	}
	return effects, s, nil
}

// commit makes next visible. Seq only moves forward.
func commit(s Session, next *engine.Snapshot) Session {
	if s.Visible != nil && next.Seq <= s.Visible.Seq {
		return s
	}
	s.Visible = next
	s.Pending = nil
	return s
}

func (s Session) isEcho(snap engine.Snapshot) bool {
	if !s.Config.SkipEcho || s.LastSent == nil || snap.LastAction == nil {
		return false
	}
	return snap.LastAction.Player == s.Self && snap.LastAction.Action == *s.LastSent
}

var scorePattern = regexp.MustCompile(`score\s+(-?\d+(?:\.\d+)?)`)

// ParseScore pulls the final score out of "game end with score 17.0".
func ParseScore(msg string) (float64, bool) {
	m := scorePattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func onGameEnded(s Session, msg string) ([]Effect, Session, error) {
	s.GameOver = msg
	score, ok := ParseScore(msg)
	return []Effect{GameFinished{Message: msg, Score: score, HasScore: ok}}, s, nil
}
