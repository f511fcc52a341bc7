// Package room runs one actor goroutine per draft room. All mutations for a
// room go through its inbox, so client actions and timer ticks never
// interleave.
package room

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/internal/rules"
	"github.com/draftarena/tcg-draft-backend/internal/store"
	"github.com/draftarena/tcg-draft-backend/pkg/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection and resolves its role. A stable user id that
// matches a bound side reclaims that seat; otherwise an empty seat is
// claimed, falling back to spectator.
type Join struct {
	ConnID string
	UserID string
	Name   string
	Outbox chan Outbound
	Reply  chan JoinReply
}

type Leave struct{ ConnID string }

// ClientCmd is a draft action from a connection. Kind is one of the
// types.Msg* client message kinds.
type ClientCmd struct {
	ConnID      string
	Kind        string
	CharacterID string
}

// UpdateResults edits the post-draft best-of-3 summary.
type UpdateResults struct {
	ConnID    string
	GameIndex int
	Field     string
	Value     string
}

// Probe reports liveness to the hub's idle sweep.
type Probe struct{ Reply chan Info }

type Shutdown struct{}

// GetState reflects internal state without data races; used by tests.
type GetState struct{ Reply chan View }

func (Join) isRoomMsg()          {}
func (Leave) isRoomMsg()         {}
func (ClientCmd) isRoomMsg()     {}
func (UpdateResults) isRoomMsg() {}
func (Probe) isRoomMsg()         {}
func (Shutdown) isRoomMsg()      {}
func (GetState) isRoomMsg()      {}

type JoinReply struct {
	Role  string
	State types.PublicState
}

type Info struct {
	LastActive time.Time
	Clients    int
	Finished   bool
}

type View struct {
	Session       engine.Session
	Clients       int
	TurnRemaining int
	BlueReserve   int
	RedReserve    int
	ClockRunning  bool
}

// Outbound is one message fanned out to a connection.
type Outbound struct {
	Kind  string // types.MsgState, MsgStarted, MsgFinished, MsgTick
	State *types.PublicState
	Tick  *types.TickPayload
}

// MatchSaver is the persistence bridge. Calls happen off the actor
// goroutine and failures are logged, never retried.
type MatchSaver interface {
	SaveMatch(ctx context.Context, rec *store.MatchRecord) error
	UpdateResults(ctx context.Context, roomID string, results []types.GameResult) error
	PruneOldest(ctx context.Context, keep int) error
}

type Timers struct {
	TurnSec    int
	ReserveSec int
}

type Deps struct {
	Saver     MatchSaver
	Log       *zap.Logger
	Timers    Timers
	Pool      []string // auto-resolve candidate ids
	Retention int
}

type client struct {
	out  chan Outbound
	role string
}

type Room struct {
	code    string
	inbox   chan Msg
	sess    engine.Session
	clients map[string]client
	deps    Deps

	ticker        *time.Ticker
	tickC         <-chan time.Time
	turnRemaining int
	blueReserve   int
	redReserve    int
	saved         bool

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, sess engine.Session, deps Deps) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:    sess.Room,
		inbox:   make(chan Msg, 64),
		sess:    sess,
		clients: make(map[string]client),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-r.tickC:
			r.onTick()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.onJoin(msg)

			case Leave:
				delete(r.clients, msg.ConnID)

			case ClientCmd:
				r.onClientCmd(msg)

			case UpdateResults:
				r.onUpdateResults(msg)

			case Probe:
				msg.Reply <- Info{
					LastActive: r.sess.LastActive,
					Clients:    len(r.clients),
					Finished:   r.sess.Finished(),
				}

			case GetState:
				msg.Reply <- View{
					Session:       r.sess,
					Clients:       len(r.clients),
					TurnRemaining: r.turnRemaining,
					BlueReserve:   r.blueReserve,
					RedReserve:    r.redReserve,
					ClockRunning:  r.ticker != nil,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) onJoin(msg Join) {
	role := r.resolveRole(msg)
	r.clients[msg.ConnID] = client{out: msg.Outbox, role: role}
	r.sess.LastActive = time.Now()
	msg.Reply <- JoinReply{Role: role, State: r.sess.Project()}
	if role != "spectator" {
		// Other parties see the (re)bound name immediately.
		r.broadcastState()
	}
}

func (r *Room) resolveRole(msg Join) string {
	if msg.UserID != "" {
		switch msg.UserID {
		case r.sess.Blue.UserID:
			r.sess.Blue.ConnID = msg.ConnID
			if msg.Name != "" {
				r.sess.Blue.Name = msg.Name
			}
			return "blue"
		case r.sess.Red.UserID:
			r.sess.Red.ConnID = msg.ConnID
			if msg.Name != "" {
				r.sess.Red.Name = msg.Name
			}
			return "red"
		}
		if r.sess.Blue.UserID == "" {
			r.sess.Blue = engine.Player{UserID: msg.UserID, ConnID: msg.ConnID, Name: msg.Name}
			return "blue"
		}
		if r.sess.Red.UserID == "" {
			r.sess.Red = engine.Player{UserID: msg.UserID, ConnID: msg.ConnID, Name: msg.Name}
			return "red"
		}
	}
	return "spectator"
}

func (r *Room) onClientCmd(msg ClientCmd) {
	cl, ok := r.clients[msg.ConnID]
	if !ok || (cl.role != "blue" && cl.role != "red") {
		return
	}
	team := rules.Team(cl.role)
	switch msg.Kind {
	case types.MsgReady:
		r.apply(engine.Command{Type: engine.CmdReady, Team: team})
	case types.MsgSubmit:
		r.apply(engine.Command{Type: engine.CmdSubmit, Team: team, CharacterID: msg.CharacterID})
	case types.MsgSkip:
		r.apply(engine.Command{Type: engine.CmdSkip, Team: team})
	}
}

// apply runs one command through the sequencer. Rejections are logged and
// otherwise invisible; the client UI is expected to have filtered them.
func (r *Room) apply(cmd engine.Command) {
	events, next, err := engine.Apply(r.sess, cmd)
	if err != nil {
		r.deps.Log.Debug("action rejected",
			zap.String("room", r.code),
			zap.String("command", string(cmd.Type)),
			zap.String("character", cmd.CharacterID),
			zap.Error(err))
		return
	}
	r.sess = next
	r.sess.LastActive = time.Now()

	for _, e := range events {
		switch e.Type {
		case engine.EvtDraftStarted:
			r.startClock()
			r.broadcast(Outbound{Kind: types.MsgStarted})
		case engine.EvtTurnAdvanced:
			r.turnRemaining = r.deps.Timers.TurnSec
		}
	}
	r.broadcastState()
	if engine.ContainsEvent(events, engine.EvtDraftCompleted) {
		r.finish()
	}
}

func (r *Room) onUpdateResults(msg UpdateResults) {
	cl, ok := r.clients[msg.ConnID]
	if !ok || (cl.role != "blue" && cl.role != "red") {
		return
	}
	if !r.sess.Finished() {
		return
	}
	if msg.GameIndex < 0 || msg.GameIndex >= len(r.sess.Results) {
		return
	}
	res := &r.sess.Results[msg.GameIndex]
	switch msg.Field {
	case "winner":
		if msg.Value != "" && msg.Value != "blue" && msg.Value != "red" {
			return
		}
		res.Winner = msg.Value
	case "blueChar":
		if msg.Value != "" && !slices.Contains(r.sess.BluePicks, msg.Value) {
			return
		}
		res.BlueChar = msg.Value
	case "redChar":
		if msg.Value != "" && !slices.Contains(r.sess.RedPicks, msg.Value) {
			return
		}
		res.RedChar = msg.Value
	default:
		return
	}
	r.sess.LastActive = time.Now()
	r.broadcastState()

	if r.saved && r.deps.Saver != nil {
		results := slices.Clone(r.sess.Results[:])
		roomID := r.code
		saver := r.deps.Saver
		log := r.deps.Log
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := saver.UpdateResults(ctx, roomID, results); err != nil {
				log.Error("persist results failed", zap.String("room", roomID), zap.Error(err))
			}
		}()
	}
}

// onTick runs the per-second clock: drain the turn timer first, then the
// active side's reserve; an exhausted reserve forces a legal action.
func (r *Room) onTick() {
	if !r.sess.Started() || r.sess.Finished() {
		return
	}
	step, ok := r.sess.CurrentStep()
	if !ok {
		return
	}
	if r.turnRemaining > 0 {
		r.turnRemaining--
	} else {
		exhausted := false
		if step.Team == rules.TeamBlue {
			r.blueReserve--
			if r.blueReserve <= 0 {
				r.blueReserve = 0
				exhausted = true
			}
		} else {
			r.redReserve--
			if r.redReserve <= 0 {
				r.redReserve = 0
				exhausted = true
			}
		}
		if exhausted {
			r.deps.Log.Info("reserve exhausted, auto-resolving",
				zap.String("room", r.code),
				zap.String("team", string(step.Team)))
			r.apply(engine.Command{Type: engine.CmdAutoResolve, Pool: r.deps.Pool})
			if r.sess.Finished() {
				return
			}
		}
	}
	r.broadcast(Outbound{Kind: types.MsgTick, Tick: &types.TickPayload{
		Main:        r.turnRemaining,
		BlueReserve: r.blueReserve,
		RedReserve:  r.redReserve,
	}})
}

func (r *Room) startClock() {
	r.turnRemaining = r.deps.Timers.TurnSec
	r.blueReserve = r.deps.Timers.ReserveSec
	r.redReserve = r.deps.Timers.ReserveSec
	if r.ticker == nil {
		r.ticker = time.NewTicker(time.Second)
		r.tickC = r.ticker.C
	}
}

// stopClock is safe to call more than once.
func (r *Room) stopClock() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
		r.tickC = nil
	}
}

// finish stops the clock, notifies clients, and hands the snapshot to the
// persistence bridge off the actor goroutine. The sequencer never waits on
// or retries the save; a failure only costs the durable record.
func (r *Room) finish() {
	r.stopClock()
	state := r.sess.Project()
	r.broadcast(Outbound{Kind: types.MsgFinished, State: &state})

	if r.saved || r.deps.Saver == nil {
		return
	}
	r.saved = true
	rec := store.Record(r.sess)
	keep := r.deps.Retention
	saver := r.deps.Saver
	log := r.deps.Log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := saver.SaveMatch(ctx, rec); err != nil {
			log.Error("persist match failed", zap.String("room", rec.RoomID), zap.Error(err))
			return
		}
		if keep > 0 {
			if err := saver.PruneOldest(ctx, keep); err != nil {
				log.Error("prune matches failed", zap.Error(err))
			}
		}
	}()
}

func (r *Room) broadcastState() {
	state := r.sess.Project()
	r.broadcast(Outbound{Kind: types.MsgState, State: &state})
}

func (r *Room) broadcast(out Outbound) {
	for id, cl := range r.clients {
		select {
		case cl.out <- out:
		default:
			// Slow or dead client; drop it.
			close(cl.out)
			delete(r.clients, id)
		}
	}
}

func (r *Room) shutdown() {
	r.stopClock()
	for id, cl := range r.clients {
		close(cl.out)
		delete(r.clients, id)
	}
	r.cancel()
}
