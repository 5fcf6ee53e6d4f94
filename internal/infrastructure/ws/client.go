package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/metrics"
	"github.com/sketchaa/sketchaa/internal/protocol"
)

const sendBufferSize = 64

// Client is one live player connection. It satisfies the game's Conn
// contract: SendEvent never blocks, at the price of dropping events
// when the peer cannot keep up.
type Client struct {
	id     string
	conn   *connWrapper
	send   chan *protocol.Event
	done   chan struct{}
	once   sync.Once
	logger logging.Logger
}

func NewClient(conn *websocket.Conn, logger logging.Logger) *Client {
	return &Client{
		id:     uuid.NewString(),
		conn:   newConnWrapper(conn),
		send:   make(chan *protocol.Event, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (c *Client) ConnID() string {
	return c.id
}

func (c *Client) SendEvent(ev *protocol.Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
		metrics.EventsDropped.Inc()
		c.logger.Warn(logging.Game, logging.Websocket, "send buffer full, event dropped", map[logging.ExtraKey]any{
			logging.EventName: ev.Type,
		})
	}
}

func (c *Client) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

// ReadPump decodes inbound envelopes and hands them to dispatch until
// the socket closes. Malformed frames are reported to the sender and
// skipped rather than tearing the connection down.
func (c *Client) ReadPump(dispatch func(env *protocol.Envelope)) {
	defer func() {
		_ = c.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn(logging.Game, logging.Websocket, "read error", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
			c.SendEvent(protocol.NewError("", "malformed message"))
			continue
		}

		dispatch(&env)
	}
}

// WritePump drains the send buffer onto the socket.
func (c *Client) WritePump() {
	defer func() {
		_ = c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			if err := c.conn.WriteJSON(ev); err != nil {
				c.logger.Warn(logging.Game, logging.Websocket, "write error", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				return
			}
		}
	}
}
