package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/internal/engine"
	"github.com/DoyleJ11/hanabi-table/internal/session"
	"github.com/DoyleJ11/hanabi-table/pkg/types"
)

var ErrClosed = errors.New("table closed")

// Transport is the duplex channel to the game server. Send must not block.
type Transport interface {
	Send(msg types.ActionMessage) error
	IsOpen() bool
}

type Msg interface{ isTableMsg() }

// Inbound is one raw frame read from the transport.
type Inbound struct {
	Data []byte
}

func (Inbound) isTableMsg() {}

// Select is the renderer submitting an action key.
type Select struct {
	Key string
}

func (Select) isTableMsg() {}

type Subscribe struct {
	ClientID string
	Outbox   chan View // where this renderer wants to receive views
}

func (Subscribe) isTableMsg() {}

type Unsubscribe struct{ ClientID string }

func (Unsubscribe) isTableMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isTableMsg() {}

type Shutdown struct{}

func (Shutdown) isTableMsg() {}

type timerFired struct{ id uint64 }

func (timerFired) isTableMsg() {}

// View is what a renderer draws: the committed board plus the animation
// playing over it.
type View struct {
	SessionID      string
	Version        int
	Phase          session.Phase
	Self           engine.PlayerID
	YourTurn       bool
	GameOver       string
	Visible        *engine.Snapshot
	Animation      engine.Animation
	LocalAnimation bool
	LastError      string // why the last selection or send did not happen
}

// GameEndFunc runs on its own goroutine; the table waits for it on shutdown.
type GameEndFunc func(sessionID string, score float64, message string)

type Options struct {
	Session   session.Config
	Clock     clockwork.Clock
	Transport Transport
	Logger    *zap.Logger
	OnGameEnd GameEndFunc
}

// Table owns one game session. Every state change happens on its loop
// goroutine, one inbox message at a time.
type Table struct {
	ID        string
	inbox     chan Msg
	session   session.Session
	clock     clockwork.Clock
	transport Transport
	onGameEnd GameEndFunc
	hooks     sync.WaitGroup
	lastErr   string
	clients   map[string]chan View
	timers    map[uint64]clockwork.Timer
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(parent context.Context, opts Options) *Table {
	ctx, cancel := context.WithCancel(parent)

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.NewString()
	t := &Table{
		ID:        id,
		inbox:     make(chan Msg, 64),
		session:   session.New(opts.Session),
		clock:     opts.Clock,
		transport: opts.Transport,
		onGameEnd: opts.OnGameEnd,
		clients:   make(map[string]chan View),
		timers:    make(map[uint64]clockwork.Timer),
		log:       opts.Logger.With(zap.String("session", id)),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go t.loop()
	return t
}

// Inbox is exposed so the transport, renderers and tests can post messages.
func (t *Table) Inbox() chan<- Msg { return t.inbox }

// Done is closed once the loop has exited.
func (t *Table) Done() <-chan struct{} { return t.done }

func (t *Table) post(ctx context.Context, m Msg) error {
	select {
	case t.inbox <- m:
		return nil
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver hands a raw frame from the transport to the loop.
func (t *Table) Deliver(ctx context.Context, data []byte) error {
	return t.post(ctx, Inbound{Data: data})
}

func (t *Table) Select(ctx context.Context, key string) error {
	return t.post(ctx, Select{Key: key})
}

func (t *Table) Subscribe(ctx context.Context, clientID string, outbox chan View) error {
	return t.post(ctx, Subscribe{ClientID: clientID, Outbox: outbox})
}

func (t *Table) Unsubscribe(ctx context.Context, clientID string) error {
	return t.post(ctx, Unsubscribe{ClientID: clientID})
}

func (t *Table) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := t.post(ctx, GetView{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-t.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (t *Table) loop() {
	defer close(t.done)
	for {
		select {
		case <-t.ctx.Done():
			t.shutdown()
			return

		case m := <-t.inbox:
			switch msg := m.(type) {
			case Inbound:
				t.handleInbound(msg.Data)

			case Select:
				open := t.transport != nil && t.transport.IsOpen()
				t.apply(session.ActionSelected{Key: msg.Key, TransportOpen: open})

			case timerFired:
				delete(t.timers, msg.id)
				t.apply(session.TimerFired{ID: msg.id})

			case Subscribe:
				t.clients[msg.ClientID] = msg.Outbox
				t.sendTo(msg.ClientID, msg.Outbox, t.view())

			case Unsubscribe:
				if ch, ok := t.clients[msg.ClientID]; ok {
					close(ch)
					delete(t.clients, msg.ClientID)
				}

			case GetView:
				msg.Reply <- t.view()

			case Shutdown:
				t.shutdown()
				return
			}
		}
	}
}

// Malformed frames are dropped; the visible board stays as it was.
func (t *Table) handleInbound(data []byte) {
	var obs types.Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		t.log.Warn("dropping unparseable payload", zap.Int("bytes", len(data)), zap.Error(err))
		return
	}

	if obs.Event != "" && obs.Info == nil {
		t.apply(session.GameEnded{Message: obs.Event})
		return
	}

	snap, err := engine.FromObservation(obs)
	if err != nil {
		t.log.Warn("dropping malformed observation", zap.Error(err))
		return
	}
	t.apply(session.SnapshotArrived{Snapshot: snap})
}

func (t *Table) apply(in session.Input) {
	effects, next, err := session.Apply(t.session, in)
	t.session = next

	publish := false
	if err != nil {
		t.log.Warn("input rejected", zap.String("input", fmt.Sprintf("%T", in)), zap.Error(err))
		t.lastErr = err.Error()
		publish = true
	} else if _, ok := in.(session.ActionSelected); ok {
		t.lastErr = ""
		publish = true
	}

	for _, e := range effects {
		switch eff := e.(type) {
		case session.StartTimer:
			t.arm(eff)
		case session.Transmit:
			t.transmit(eff)
		case session.Committed:
			t.log.Debug("snapshot committed", zap.Int("seq", eff.Seq))
			if err == nil {
				t.lastErr = ""
			}
			publish = true
		case session.AnimationStarted:
			t.log.Debug("animation started", zap.String("animation", fmt.Sprintf("%+v", eff.Animation)), zap.Bool("local", eff.Local))
			publish = true
		case session.AnimationEnded:
			publish = true
		case session.Coalesced:
			t.log.Debug("pending snapshot superseded", zap.Int("dropped", eff.Dropped), zap.Int("by", eff.By))
		case session.Unclassified:
			t.log.Info("unclassified action", zap.Int("seq", eff.Seq), zap.Error(eff.Err))
		case session.GameFinished:
			t.log.Info("game finished", zap.String("message", eff.Message))
			if t.onGameEnd != nil && eff.HasScore {
				t.hooks.Add(1)
				go func(hook GameEndFunc, id string, score float64, msg string) {
					defer t.hooks.Done()
					hook(id, score, msg)
				}(t.onGameEnd, t.ID, eff.Score, eff.Message)
			}
			publish = true
		}
	}

	if publish {
		t.broadcast(t.view())
	}
}

// Timers are one-shot and only stopped on shutdown.
func (t *Table) arm(st session.StartTimer) {
	id := st.ID
	t.timers[id] = t.clock.AfterFunc(st.After, func() {
		select {
		case t.inbox <- timerFired{id: id}:
		case <-t.done:
		}
	})
}

func (t *Table) transmit(tx session.Transmit) {
	if t.transport == nil || !t.transport.IsOpen() {
		t.log.Warn("transport not open, action not sent", zap.String("key", tx.Key))
		return
	}
	if err := t.transport.Send(types.ActionMessage{Action: tx.Key}); err != nil {
		t.log.Warn("send failed", zap.String("key", tx.Key), zap.Error(err))
		return
	}
	t.log.Info("action sent", zap.String("key", tx.Key), zap.Stringer("action", tx.Action))
}

func (t *Table) view() View {
	s := t.session
	return View{
		SessionID:      t.ID,
		Version:        s.Version(),
		Phase:          s.Phase,
		Self:           s.Self,
		YourTurn:       s.YourTurn(),
		GameOver:       s.GameOver,
		Visible:        s.Visible,
		Animation:      s.Animation,
		LocalAnimation: s.LocalAnimation,
		LastError:      t.lastErr,
	}
}

func (t *Table) broadcast(v View) {
	for id, ch := range t.clients {
		t.sendTo(id, ch, v)
	}
}

func (t *Table) sendTo(id string, ch chan View, v View) {
	select {
	case ch <- v:
		//ok
	default:
		// Renderer is slow/full - drop it.
		t.log.Debug("dropping slow renderer", zap.String("client", id))
		close(ch)
		delete(t.clients, id)
	}
}

func (t *Table) shutdown() {
	for id, tm := range t.timers {
		tm.Stop()
		delete(t.timers, id)
	}
	for id, ch := range t.clients {
		close(ch) // Tell renderer no more views
		delete(t.clients, id)
	}
	t.hooks.Wait()
	t.cancel()
}
