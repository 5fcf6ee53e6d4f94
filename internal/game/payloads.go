package game

import (
	"time"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/protocol"
)

func playersPayload(room *domain.Room) []protocol.PlayerPayload {
	out := make([]protocol.PlayerPayload, 0, len(room.Players))
	for _, p := range room.Players {
		out = append(out, protocol.PlayerPayload{
			ID:        p.ID,
			Name:      p.Name,
			IsHost:    p.IsHost,
			Character: p.Character,
			Score:     p.Score,
			Connected: p.Connected(),
		})
	}
	return out
}

func gameStatePayload(room *domain.Room, now time.Time) protocol.GameStatePayload {
	payload := protocol.GameStatePayload{
		Phase:     string(room.Phase),
		IsStarted: room.Phase != domain.PhaseLobby,
		Duration:  int(room.Duration.Seconds()),
	}
	if !room.StartedAt.IsZero() {
		payload.StartTime = room.StartedAt.UnixMilli()
		payload.RemainingTime = room.Remaining(now)
	}
	return payload
}

func roomStatePayload(room *domain.Room, now time.Time) protocol.RoomStatePayload {
	return protocol.RoomStatePayload{
		RoomCode:     room.Code,
		Players:      playersPayload(room),
		SelectedWord: room.Word,
		ChatMessages: chatPayloads(room.Chat.Messages()),
		GameState:    gameStatePayload(room, now),
	}
}

func chatPayload(msg domain.ChatMessage) protocol.ChatPayload {
	return protocol.ChatPayload{
		ID:         msg.ID,
		PlayerID:   msg.PlayerID,
		PlayerName: msg.PlayerName,
		Character:  msg.Character,
		Message:    msg.Message,
		Timestamp:  msg.Timestamp.UnixMilli(),
	}
}

func chatPayloads(msgs []domain.ChatMessage) []protocol.ChatPayload {
	out := make([]protocol.ChatPayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatPayload(m))
	}
	return out
}

func resultPayloads(results []domain.RoundResult) []protocol.ResultPayload {
	out := make([]protocol.ResultPayload, 0, len(results))
	for _, r := range results {
		out = append(out, protocol.ResultPayload{
			PlayerID:     r.Player.ID,
			PlayerName:   r.Player.Name,
			Character:    r.Player.Character,
			Image:        r.Image,
			HasSubmitted: r.HasSubmitted,
			TotalScore:   r.Totals.TotalScore,
			TotalVotes:   r.Totals.TotalVotes,
			AverageScore: r.Totals.AverageScore,
			Scores:       r.Scores,
			Rank:         r.Rank,
		})
	}
	return out
}
