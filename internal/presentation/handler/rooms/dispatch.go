package rooms

import (
	"context"
	"encoding/json"

	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/validate"
	"github.com/sketchaa/sketchaa/internal/infrastructure/ws"
	"github.com/sketchaa/sketchaa/internal/protocol"
)

var (
	validRoomCode = validate.Field("roomCode", validate.Required(), validate.Length(6), validate.Alphanumeric())
	validPlayerID = validate.Field("playerId", validate.Required(), validate.MaxLength(64))
	validName     = validate.Field("playerName", validate.Required(), validate.MaxLength(32))
)

// dispatcher routes decoded envelopes to the coordinator. Payloads
// are validated here, at the boundary, so the game layer only ever
// sees well-formed requests.
func (h *Handler) dispatcher(client *ws.Client) func(env *protocol.Envelope) {
	ctx := context.Background()

	return func(env *protocol.Envelope) {
		switch env.Type {
		case protocol.CreateRoom:
			var req protocol.CreateRoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			if req.RoomCode != "" {
				if err := validRoomCode(req.RoomCode); err != nil {
					client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
					return
				}
			}
			if err := validPlayerID(req.HostPlayer.ID); err != nil {
				client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
				return
			}
			if err := validName(req.HostPlayer.Name); err != nil {
				client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
				return
			}
			h.coordinator.CreateRoom(ctx, client, req)

		case protocol.JoinRoom:
			var req protocol.JoinRoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			if err := validRoomCode(req.RoomCode); err != nil {
				client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
				return
			}
			if err := validPlayerID(req.Player.ID); err != nil {
				client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
				return
			}
			if err := validName(req.Player.Name); err != nil {
				client.SendEvent(protocol.NewError(req.RoomCode, err.Error()))
				return
			}
			h.coordinator.JoinRoom(ctx, client, req)

		case protocol.RejoinRoom:
			var req protocol.RejoinRoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.RejoinRoom(ctx, client, req)

		case protocol.StartGame:
			var req protocol.StartGameRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.StartGame(ctx, client, req)

		case protocol.ChangeWord:
			var req protocol.ChangeWordRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.ChangeWord(client, req)

		case protocol.SendMessage:
			var req protocol.SendMessageRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.SendMessage(client, req)

		case protocol.SubmitDrawing:
			var req protocol.SubmitDrawingRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.SubmitDrawing(client, req)

		case protocol.SubmitScore:
			var req protocol.SubmitScoreRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.SubmitScore(client, req)

		case protocol.GetRoomDrawings:
			var req protocol.RoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.RoomDrawings(client, req)

		case protocol.GetScoringHistory:
			var req protocol.PlayerRoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.ScoringHistory(client, req)

		case protocol.RequestResults:
			var req protocol.RoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.GameResults(client, req)

		case protocol.GetRoomInfo:
			var req protocol.RoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.RoomInfo(client, req)

		case protocol.ResetRound:
			var req protocol.PlayerRoomRequest
			if !h.decode(client, env, &req) {
				return
			}
			h.coordinator.ResetRound(client, req)

		default:
			h.logger.Debug(logging.Game, logging.Websocket, "unknown event", map[logging.ExtraKey]any{
				logging.EventName: env.Type,
			})
			client.SendEvent(protocol.NewError("", "unknown event type"))
		}
	}
}

func (h *Handler) decode(client *ws.Client, env *protocol.Envelope, dst any) bool {
	if err := json.Unmarshal(env.Data, dst); err != nil {
		client.SendEvent(protocol.NewError("", "malformed message"))
		return false
	}
	return true
}
