package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/catalog"
	"github.com/draftarena/tcg-draft-backend/internal/hub"
	"github.com/draftarena/tcg-draft-backend/internal/room"
	"github.com/draftarena/tcg-draft-backend/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades a connection and binds it into its room. Role follows
// the stable user id, not the socket: reconnecting with a known id reclaims
// the same seat, unknown ids fall back to spectator once both seats are
// taken.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Room codes are case-normalized to uppercase.
		code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
		userID := r.URL.Query().Get("user_id")
		name := r.URL.Query().Get("name")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			// Expired or never existed; the client is expected to abandon
			// the room on this signal.
			writeMsg(r.Context(), conn, types.ServerMessage{
				Type:  types.MsgError,
				Code:  types.CodeSessionExpired,
				Error: "Session expired",
			})
			return
		}

		out := make(chan room.Outbound, 16)
		connID := uuid.NewString()

		joinReply := make(chan room.JoinReply, 1)
		rm.Inbox() <- room.Join{
			ConnID: connID,
			UserID: userID,
			Name:   name,
			Outbox: out,
			Reply:  joinReply,
		}
		joined := <-joinReply
		defer func() { rm.Inbox() <- room.Leave{ConnID: connID} }()

		writeMsg(r.Context(), conn, types.ServerMessage{
			Type:  types.MsgInit,
			Role:  joined.Role,
			State: &joined.State,
			Chars: catalog.ByElement(),
		})

		// Writer goroutine: fan room broadcasts onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ob := range out {
				writeMsg(writeCtx, conn, toServerMessage(ob))
			}
		}()

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeMsg(r.Context(), conn, types.ServerMessage{
					Type:  types.MsgError,
					Code:  types.CodeBadMessage,
					Error: "bad json",
				})
				continue
			}

			switch cm.Type {
			case types.MsgReady, types.MsgSubmit, types.MsgSkip:
				rm.Inbox() <- room.ClientCmd{
					ConnID:      connID,
					Kind:        cm.Type,
					CharacterID: cm.CharacterID,
				}
			case types.MsgUpdateResults:
				rm.Inbox() <- room.UpdateResults{
					ConnID:    connID,
					GameIndex: cm.GameIndex,
					Field:     cm.Field,
					Value:     cm.Value,
				}
			default:
				log.Debug("unknown client message",
					zap.String("room", code),
					zap.String("type", cm.Type))
				writeMsg(r.Context(), conn, types.ServerMessage{
					Type:  types.MsgError,
					Code:  types.CodeBadMessage,
					Error: "unknown type",
				})
			}
		}
	}
}

func toServerMessage(ob room.Outbound) types.ServerMessage {
	return types.ServerMessage{
		Type:  ob.Kind,
		State: ob.State,
		Tick:  ob.Tick,
	}
}

func writeMsg(parent context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
