// Package hub owns the in-process map of live draft rooms.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Sess  engine.Session
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct{ Code string }

// SweepIdle shuts down and removes rooms whose last activity is older than
// MaxAge.
type SweepIdle struct{ MaxAge time.Duration }

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (SweepIdle) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	deps   room.Deps
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps room.Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		deps:   deps,
		log:    deps.Log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if r := h.rooms[msg.Sess.Room]; r != nil {
					msg.Reply <- r
					break
				}
				r := room.New(h.ctx, msg.Sess, h.deps)
				h.rooms[msg.Sess.Room] = r
				h.log.Info("room created",
					zap.String("room", msg.Sess.Room),
					zap.String("mode", msg.Sess.Mode.Name))
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				if r := h.rooms[msg.Code]; r != nil {
					r.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.Code)
				}

			case SweepIdle:
				h.sweep(msg.MaxAge)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// sweep probes every room for liveness and tears down the stale ones,
// cancelling their timers before removal.
func (h *Hub) sweep(maxAge time.Duration) {
	now := time.Now()
	for code, r := range h.rooms {
		reply := make(chan room.Info, 1)
		r.Inbox() <- room.Probe{Reply: reply}

		var info room.Info
		select {
		case info = <-reply:
		case <-time.After(2 * time.Second):
			// Unresponsive actor; leave it for the next sweep.
			h.log.Warn("room probe timed out", zap.String("room", code))
			continue
		}

		if now.Sub(info.LastActive) > maxAge {
			h.log.Info("removing idle room",
				zap.String("room", code),
				zap.Time("last_active", info.LastActive),
				zap.Bool("finished", info.Finished))
			r.Inbox() <- room.Shutdown{}
			delete(h.rooms, code)
		}
	}
}

func (h *Hub) shutdown() {
	for code, r := range h.rooms {
		r.Inbox() <- room.Shutdown{}
		delete(h.rooms, code)
	}
	h.cancel()
}
