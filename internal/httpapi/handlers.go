package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/internal/hub"
	"github.com/draftarena/tcg-draft-backend/internal/room"
	"github.com/draftarena/tcg-draft-backend/internal/rules"
	"github.com/draftarena/tcg-draft-backend/internal/store"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a 6-character room code.
func GenerateCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

type createRoomRequest struct {
	Mode        string `json:"mode"`
	DisplayName string `json:"display_name"`
	UserID      string `json:"user_id"`
}

func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		mode, err := rules.Resolve(req.Mode)
		if errors.Is(err, rules.ErrUnknownMode) {
			http.Error(w, "unknown draft mode", http.StatusUnprocessableEntity)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Warn("room code collision, regenerating", zap.String("code", c))
		}

		sess := engine.NewSession(code, mode, req.UserID, req.DisplayName)
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{Sess: sess, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func ListModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Modes []string `json:"modes"`
	}{Modes: rules.Names()})
}

func ListMatches(st *store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "match history unavailable", http.StatusServiceUnavailable)
			return
		}
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		records, err := st.Recent(r.Context(), limit)
		if err != nil {
			log.Error("list matches failed", zap.Error(err))
			http.Error(w, "failed to list matches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
