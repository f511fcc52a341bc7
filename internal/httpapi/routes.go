package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/draftarena/tcg-draft-backend/internal/hub"
	"github.com/draftarena/tcg-draft-backend/internal/store"
	"github.com/draftarena/tcg-draft-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, st *store.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h, log))
	r.Get("/modes", ListModes)
	r.Get("/matches", ListMatches(st, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
