// Package client is a small websocket SDK for the sketchaa game
// server, used by bots, load tools and the integration tests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sketchaa/sketchaa/internal/protocol"
)

// Event mirrors the server's outbound envelope with the payload kept
// raw for the caller to decode.
type Event struct {
	Type string          `json:"type"`
	Room string          `json:"roomCode,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	conn *websocket.Conn

	mu      sync.Mutex
	closed  bool
	handler func(Event)
	onError func(error)
}

// Dial connects to a server's websocket endpoint. baseURL accepts
// either http(s) or ws(s) schemes.
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", u.String(), err)
	}

	return &Client{conn: conn}, nil
}

func (c *Client) SetEventHandler(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

func (c *Client) SetErrorHandler(handler func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = handler
}

// Listen reads events until the connection closes or ctx is done.
func (c *Client) Listen(ctx context.Context) error {
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			c.mu.Lock()
			closed, onError := c.closed, c.onError
			c.mu.Unlock()

			if closed {
				return nil
			}
			if onError != nil {
				onError(err)
			}
			return err
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()

		if handler != nil {
			handler(ev)
		}
	}
}

// Next reads a single event, for callers that prefer a pull model.
func (c *Client) Next() (Event, error) {
	var ev Event
	err := c.conn.ReadJSON(&ev)
	return ev, err
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) send(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection is closed")
	}
	return c.conn.WriteJSON(protocol.Envelope{Type: eventType, Data: data})
}

func (c *Client) CreateRoom(roomCode, playerID, playerName, character, word string) error {
	return c.send(protocol.CreateRoom, protocol.CreateRoomRequest{
		RoomCode: roomCode,
		HostPlayer: protocol.PlayerPayload{
			ID:        playerID,
			Name:      playerName,
			Character: character,
		},
		SelectedWord: word,
	})
}

func (c *Client) JoinRoom(roomCode, playerID, playerName, character string) error {
	return c.send(protocol.JoinRoom, protocol.JoinRoomRequest{
		RoomCode: roomCode,
		Player: protocol.PlayerPayload{
			ID:        playerID,
			Name:      playerName,
			Character: character,
		},
	})
}

func (c *Client) RejoinRoom(roomCode, playerID string) error {
	return c.send(protocol.RejoinRoom, protocol.RejoinRoomRequest{RoomCode: roomCode, PlayerID: playerID})
}

func (c *Client) StartGame(roomCode, playerID string) error {
	return c.send(protocol.StartGame, protocol.StartGameRequest{RoomCode: roomCode, PlayerID: playerID})
}

func (c *Client) ChangeWord(roomCode, playerID, newWord string) error {
	return c.send(protocol.ChangeWord, protocol.ChangeWordRequest{RoomCode: roomCode, PlayerID: playerID, NewWord: newWord})
}

func (c *Client) SendMessage(roomCode, playerID, message string) error {
	return c.send(protocol.SendMessage, protocol.SendMessageRequest{RoomCode: roomCode, PlayerID: playerID, Message: message})
}

func (c *Client) SubmitDrawing(roomCode, playerID, image string) error {
	return c.send(protocol.SubmitDrawing, protocol.SubmitDrawingRequest{RoomCode: roomCode, PlayerID: playerID, Image: image})
}

func (c *Client) SubmitScore(roomCode, scorerID, targetPlayerID string, score int) error {
	return c.send(protocol.SubmitScore, protocol.SubmitScoreRequest{
		RoomCode:       roomCode,
		ScorerID:       scorerID,
		TargetPlayerID: targetPlayerID,
		Score:          score,
	})
}

func (c *Client) GetRoomDrawings(roomCode string) error {
	return c.send(protocol.GetRoomDrawings, protocol.RoomRequest{RoomCode: roomCode})
}

func (c *Client) GetScoringHistory(roomCode, playerID string) error {
	return c.send(protocol.GetScoringHistory, protocol.PlayerRoomRequest{RoomCode: roomCode, PlayerID: playerID})
}

func (c *Client) RequestGameResults(roomCode string) error {
	return c.send(protocol.RequestResults, protocol.RoomRequest{RoomCode: roomCode})
}

func (c *Client) GetRoomInfo(roomCode string) error {
	return c.send(protocol.GetRoomInfo, protocol.RoomRequest{RoomCode: roomCode})
}

func (c *Client) ResetRound(roomCode, playerID string) error {
	return c.send(protocol.ResetRound, protocol.PlayerRoomRequest{RoomCode: roomCode, PlayerID: playerID})
}
