package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/game"
	"github.com/sketchaa/sketchaa/internal/infrastructure/json"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/metrics"
	"github.com/sketchaa/sketchaa/internal/infrastructure/ws"
)

type Handler struct {
	coordinator *game.Coordinator
	logger      logging.Logger
}

func NewHandler(coordinator *game.Coordinator, logger logging.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// ConnectHandler upgrades the request to a websocket and runs the
// connection until the peer goes away. The read loop is this
// goroutine; writes get their own.
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Upgrade(w, r)
	if err != nil {
		h.logger.Warn(logging.Game, logging.Websocket, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
			logging.ClientIp:     r.RemoteAddr,
		})
		return
	}

	client := ws.NewClient(conn, h.logger)
	metrics.ClientsConnected.Inc()
	defer func() {
		metrics.ClientsConnected.Dec()
		h.coordinator.Disconnect(r.Context(), client)
	}()

	go client.WritePump()
	client.ReadPump(h.dispatcher(client))
}

// GetRoomHandler exposes a read-only room snapshot over plain HTTP,
// mainly for debugging and health tooling.
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomCode")
	if code == "" {
		json.WriteValidationError(w, errors.New("room code is missing"))
		return
	}

	snapshot, err := h.coordinator.Snapshot(code)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFound(w, err)
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, snapshot)
}
