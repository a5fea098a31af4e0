package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/carsim/carsim/internal/util"
)

// Handler reacts to one named signaling event. Handlers run sequentially
// on the read pump goroutine, so they must not block on the pump itself.
type Handler func(data json.RawMessage)

// Client maintains the single outbound connection to the signaling server.
// Register handlers with On before calling Connect; Connect registers the
// car's room and starts dispatching incoming events.
type Client struct {
	url  string
	room string

	handlers map[string]Handler

	conn    *websocket.Conn
	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client bound to one signaling URL and room code.
func NewClient(url, room string) *Client {
	return &Client{
		url:      url,
		room:     room,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}
}

// On registers exactly one handler for the given event name. Later
// registrations for the same event replace the earlier one.
func (c *Client) On(event string, fn Handler) {
	c.handlers[event] = fn
}

// Connect dials the signaling server, registers the room, and starts the
// read pump. A dial or registration failure is fatal to the caller: without
// signaling the session cannot exist.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("connect to signaling server: %w", err)
	}
	c.conn = conn
	util.LogInfo("connected to signaling server: %s", c.url)

	if err := c.Emit(EventRegisterCar, c.room); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("register room: %w", err)
	}
	util.LogInfo("car registered with room code: %s", c.room)

	go c.readPump(conn)

	return nil
}

// Emit sends a named event with a JSON payload. Best-effort: callers own
// the decision whether a failure is fatal.
func (c *Client) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("emit %s: not connected", event)
	}
	return c.conn.WriteJSON(Envelope{Event: event, Data: data})
}

// readPump reads envelopes until the connection dies and dispatches them
// to the registered handlers. Malformed envelopes and unknown events are
// dropped; they must never take the session down.
func (c *Client) readPump(conn *websocket.Conn) {
	defer c.closeOnce.Do(func() { close(c.done) })

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			util.LogDebug("signaling read pump stopped: %v", err)
			return
		}

		fn, ok := c.handlers[env.Event]
		if !ok {
			util.LogDebug("no handler for signaling event %q, dropped", env.Event)
			continue
		}
		fn(env.Data)
	}
}

// Done returns a channel closed when the read pump exits, i.e. when the
// signaling connection is lost or Disconnect was called.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Disconnect closes the connection if currently connected. Idempotent.
func (c *Client) Disconnect() {
	c.writeMu.Lock()
	conn := c.conn
	c.conn = nil
	c.writeMu.Unlock()

	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
	c.closeOnce.Do(func() { close(c.done) })
}
