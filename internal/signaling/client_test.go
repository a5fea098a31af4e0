package signaling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeSignalingServer is a one-connection WebSocket server standing in
// for the external signaling service.
type fakeSignalingServer struct {
	srv    *httptest.Server
	connCh chan *websocket.Conn
}

func newFakeSignalingServer(t *testing.T) *fakeSignalingServer {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	f := &fakeSignalingServer{connCh: make(chan *websocket.Conn, 1)}

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.connCh <- conn
	}))
	t.Cleanup(f.srv.Close)

	return f
}

// url returns the ws:// form of the test server address.
func (f *fakeSignalingServer) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

// accept waits for the client connection.
func (f *fakeSignalingServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-f.connCh:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

// TestConnectRegistersRoom verifies the client emits register-car with
// the room code immediately after connecting.
func TestConnectRegistersRoom(t *testing.T) {
	server := newFakeSignalingServer(t)

	client := NewClient(server.url(), "CAR001")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	conn := server.accept(t)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read registration failed: %v", err)
	}
	if env.Event != EventRegisterCar {
		t.Fatalf("first event = %q, want %q", env.Event, EventRegisterCar)
	}

	var room string
	if err := json.Unmarshal(env.Data, &room); err != nil {
		t.Fatalf("registration payload not a string: %v", err)
	}
	if room != "CAR001" {
		t.Fatalf("registered room = %q, want CAR001", room)
	}
}

// TestIncomingEventDispatch verifies incoming envelopes reach the handler
// registered for their event, and unknown events are dropped without
// killing the read pump.
func TestIncomingEventDispatch(t *testing.T) {
	server := newFakeSignalingServer(t)

	got := make(chan json.RawMessage, 1)
	client := NewClient(server.url(), "CAR001")
	client.On(EventControllerJoined, func(data json.RawMessage) {
		got <- data
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	conn := server.accept(t)

	// An event nobody registered for must be ignored.
	if err := conn.WriteJSON(Envelope{Event: "room-stats"}); err != nil {
		t.Fatalf("write unknown event failed: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Event: EventControllerJoined, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write event failed: %v", err)
	}

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("controller-joined handler never fired")
	}
}

// TestEmitAfterDisconnect verifies emitting on a closed client reports an
// error instead of panicking, and that Disconnect is idempotent.
func TestEmitAfterDisconnect(t *testing.T) {
	server := newFakeSignalingServer(t)

	client := NewClient(server.url(), "CAR001")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	server.accept(t)

	client.Disconnect()
	client.Disconnect() // idempotent

	if err := client.Emit(EventOffer, OfferPayload{RoomCode: "CAR001"}); err == nil {
		t.Fatal("expected emit error after disconnect, got nil")
	}

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after Disconnect")
	}
}

// TestDoneClosesOnServerDrop verifies losing the connection surfaces
// through Done so the supervisor can abort the run loop.
func TestDoneClosesOnServerDrop(t *testing.T) {
	server := newFakeSignalingServer(t)

	client := NewClient(server.url(), "CAR001")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	conn := server.accept(t)
	conn.Close()

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after server dropped the connection")
	}
}

// TestConnectFailureIsFatal verifies an unreachable signaling server is
// reported as an error from Connect.
func TestConnectFailureIsFatal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client := NewClient("ws://127.0.0.1:1/ws", "CAR001")
	if err := client.Connect(ctx); err == nil {
		t.Fatal("expected connect error, got nil")
	}
}
